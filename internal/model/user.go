package model

import "time"

const (
	DepartmentAdmin = "admin"
	DepartmentStaff = "staff"
)

type User struct {
	ID         int       `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	CreatedAt  time.Time `db:"created" json:"created"`
}

// Session is a time-bounded credential tied to one user. There is no
// renewal; a session dies by deletion or by its expiry passing.
type Session struct {
	Token     string    `db:"session_token"`
	UserID    int       `db:"user_id"`
	CreatedAt time.Time `db:"created"`
	Expires   time.Time `db:"expires"`
}

// Valid reports whether the session has not yet expired.
func (s *Session) Valid(now time.Time) bool {
	return s.Expires.After(now)
}

// SessionUser is a valid session joined with its owner's public fields.
type SessionUser struct {
	Session Session
	User    User
}
