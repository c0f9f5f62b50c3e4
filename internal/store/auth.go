package store

import (
	"context"
	"strings"

	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
)

const invalidCredentials = "Invalid username or password"

// Authenticate matches the username case-insensitively and the password
// exactly. Every failure returns the same generic auth error.
func (s *Store) Authenticate(username, password string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username = strings.TrimSpace(username)
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) && u.Password == password {
			return u, nil
		}
	}
	return models.User{}, types.Auth(invalidCredentials)
}

// ChangePassword replaces the user's password after checking the current one.
func (s *Store) ChangePassword(ctx context.Context, id, current, next string) error {
	if next == "" {
		return types.Validation("new password is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, id, userID)
	if i < 0 {
		return types.NotFound("user %s not found", id)
	}
	if s.users[i].Password != current {
		return types.Auth("current password is incorrect")
	}
	s.users[i].Password = next
	s.commit(ctx)
	return nil
}
