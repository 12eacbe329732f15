package request

type ActivateRequest struct {
	Code string `json:"code" validate:"required,notblank,max=64"`
}

// CreateActivationCodeRequest inserts Code verbatim when set, otherwise a
// random code is generated.
type CreateActivationCodeRequest struct {
	Code string `json:"code" validate:"omitempty,notblank,min=4,max=64"`
}
