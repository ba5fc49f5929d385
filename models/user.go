package models

import "time"

// User is an account that can upload documents. Administrators review
// documents of every user and are not limited by the view quota.
type User struct {
	// UserID is the internal identifier assigned by the store.
	UserID int64 `json:"id"`

	// Email is the unique login of the account.
	Email string `json:"email"`

	// Name is the display name shown in lists and review notes.
	Name string `json:"name"`

	// Password carries the plaintext password of a registration or login
	// request. It is never persisted and never serialized back.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored in the database.
	PasswordHash string `json:"-"`

	// IsAdmin marks an elevated account.
	IsAdmin bool `json:"is_admin"`

	// IsVerified is set once the owner of the email opened the
	// verification link. Unverified accounts cannot log in.
	IsVerified bool `json:"is_verified"`

	// VerificationToken is the digest of the emailed verification token.
	// The plaintext token only travels in the link.
	VerificationToken string `json:"-"`

	// VerificationExpires bounds the lifetime of VerificationToken.
	VerificationExpires time.Time `json:"-"`

	// CreatedAt is set by the store on insert.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table that stores users.
func (u User) TableName() string {
	return "users"
}

// Public returns a copy that is safe to send to a client.
func (u User) Public() User {
	u.Password = ""
	u.PasswordHash = ""
	u.VerificationToken = ""
	u.VerificationExpires = time.Time{}
	return u
}

// Requester identifies the caller of a document operation. It is rebuilt
// from the user store on every authenticated request, so IsAdmin always
// reflects the current role of the account.
type Requester struct {
	UserID  int64
	IsAdmin bool
}

// CanSee reports whether the requester may access a document owned by ownerID.
func (r Requester) CanSee(ownerID int64) bool {
	return r.IsAdmin || r.UserID == ownerID
}
