package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a console account on the stand-in backend. The real backend owns
// its own account records; this type only exists server-side.
type Admin struct {
	Id           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AsUser converts the stored admin into the identity shape the auth
// endpoints return to the client.
func (a *Admin) AsUser() User {
	return User{
		Id:       FlexId(a.Id.String()),
		Username: a.Username,
		Email:    a.Email,
	}
}
