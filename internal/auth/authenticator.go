package auth

import (
	"errors"
	"fmt"

	"github.com/crewscheduler/backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDataUnavailable    = errors.New("user data is not loaded")
)

type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

// Authenticator checks credentials against the users of the current
// snapshot.
type Authenticator struct {
	users SnapshotSource
}

func NewAuthenticator(users SnapshotSource) *Authenticator {
	return &Authenticator{users: users}
}

// Login returns the user without its stored credential.
func (a *Authenticator) Login(username, password string) (models.User, error) {
	snap := a.users.Snapshot()
	if !snap.Loaded() {
		return models.User{}, ErrDataUnavailable
	}
	user, ok := snap.UserByUsername(username)
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	match, err := CheckPassword(password, user.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("check password for %s: %w", username, err)
	}
	if !match {
		return models.User{}, ErrInvalidCredentials
	}
	return user.Public(), nil
}
