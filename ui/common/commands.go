package common

type SessionState uint

const (
	RestoringView SessionState = iota
	LoginView
	SubmissionsView
)

// SessionRestoredMsg ends the startup restore check. Until it arrives the
// root model stays in RestoringView, whatever the token situation is.
type SessionRestoredMsg struct {
	Authenticated bool
}

// AuthSuccessMsg is emitted by the login view after a successful login or
// registration.
type AuthSuccessMsg struct{}
