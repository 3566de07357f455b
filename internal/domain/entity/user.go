package entity

import "time"

// Role is the fixed set of principal roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User is the authenticated principal. The password is stored as a bcrypt
// hash and never serialized to JSON. Deleting a user only clears the active
// flag; the document stays in the collection.
type User struct {
	ID                   string    `bson:"_id,omitempty" json:"id"`
	Name                 string    `bson:"name" json:"name"`
	Email                string    `bson:"email" json:"email"`
	Photo                string    `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 Role      `bson:"role" json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
	Password             string    `bson:"password" json:"-"`
	PasswordChangedAt    time.Time `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetHash    string    `bson:"password_reset_hash,omitempty" json:"-"`
	PasswordResetExpires time.Time `bson:"password_reset_expires,omitempty" json:"-"`
	Active               bool      `bson:"active" json:"-"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time `bson:"updated_at" json:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given session token issue time. Timestamps are compared at second
// precision because token issue times are unix seconds.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}
