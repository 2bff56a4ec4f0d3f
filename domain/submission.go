package domain

import (
	"fmt"
	"time"
)

// Submission is one contact-form record held by the backend. The client
// treats it as read-only; the only mutation it ever requests is deletion.
type Submission struct {
	Id        string    `json:"_id"`
	Nom       string    `json:"nom"`
	Prenom    string    `json:"prenom,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Known service categories of the contact form. Anything else is treated
// as ServiceOther for presentation purposes.
const (
	ServiceConsulting    = "consulting"
	ServiceDeveloppement = "developpement"
	ServiceDesign        = "design"
	ServiceMarketing     = "marketing"
	ServiceSupport       = "support"
	ServiceOther         = "autre"
)

func KnownServices() []string {
	return []string{
		ServiceConsulting,
		ServiceDeveloppement,
		ServiceDesign,
		ServiceMarketing,
		ServiceSupport,
		ServiceOther,
	}
}

// FullName joins nom and prenom, skipping an absent prenom.
func (s *Submission) FullName() string {
	if s.Prenom == "" {
		return s.Nom
	}
	return fmt.Sprintf("%s %s", s.Nom, s.Prenom)
}
