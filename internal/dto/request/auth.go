package request

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Username        string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,notblank,min=6,max=20"`
}

// LoginRequest accepts either an email address or a username as identifier.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,notblank"`
	Password        string `json:"password" validate:"required"`

	// Filled by the handler for session bookkeeping.
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}
