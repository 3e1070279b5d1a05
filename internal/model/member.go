package model

import "time"

// Member is a directory contact eligible to receive sms/email dispatches.
// The directory is read-only from this system's perspective.
type Member struct {
	ID            int       `db:"id"`
	CreatedAt     time.Time `db:"created"`
	UpdatedAt     time.Time `db:"updated"`
	Birthdate     time.Time `db:"birthdate"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	TNumber       string    `db:"t_number"`
	Gender        string    `db:"gender"`
	ORStatus      string    `db:"o_r_status"`
	Community     string    `db:"community"`
	ContactNumber string    `db:"contact_number"`
	Option        string    `db:"option"`
	Email         string    `db:"email"`
}

// MemberView is the API representation of a Member. Dates are serialized
// to RFC 3339 strings; no native time values cross the boundary.
type MemberView struct {
	ID            int    `json:"id"`
	Created       string `json:"created"`
	Updated       string `json:"updated"`
	Birthdate     string `json:"birthdate"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	TNumber       string `json:"t_number"`
	Gender        string `json:"gender"`
	ORStatus      string `json:"o_r_status"`
	Community     string `json:"community"`
	ContactNumber string `json:"contact_number"`
	Option        string `json:"option"`
	Email         string `json:"email"`
}

func (m *Member) View() MemberView {
	return MemberView{
		ID:            m.ID,
		Created:       m.CreatedAt.Format(time.RFC3339),
		Updated:       m.UpdatedAt.Format(time.RFC3339),
		Birthdate:     m.Birthdate.Format(time.RFC3339),
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		TNumber:       m.TNumber,
		Gender:        m.Gender,
		ORStatus:      m.ORStatus,
		Community:     m.Community,
		ContactNumber: m.ContactNumber,
		Option:        m.Option,
		Email:         m.Email,
	}
}

// Recipient is the member-like shape the UI posts with a dispatch request.
// Only the channel-appropriate address is required; extra fields are ignored.
type Recipient struct {
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}

// RecipientDetail is a resolved directory entry for a stored contact string.
type RecipientDetail struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ContactNumber string `json:"contact_number,omitempty"`
	Email         string `json:"email,omitempty"`
}
