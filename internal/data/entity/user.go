package entity

// User is never deleted; IsActivated only moves false -> true through code redemption.
type User struct {
	BaseNoDelete
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
	PhoneNumber  string `db:"phone_number"`
	IsActivated  bool   `db:"is_activated"`
}
