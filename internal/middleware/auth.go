// auth.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
)

const (
	// SessionCookie names the session cookie
	SessionCookie = "lof_session"

	sessionUserKey = "userId"
	localsUser     = "user"
)

// Auth keeps server-side sessions that bind a cookie to a user id.
type Auth struct {
	sessions *session.Store
	store    *store.Store
}

// NewAuth creates session auth over the user directory in st.
func NewAuth(st *store.Store, ttl time.Duration) *Auth {
	return &Auth{
		sessions: session.New(session.Config{
			Expiration:     ttl,
			KeyLookup:      "cookie:" + SessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
		store: st,
	}
}

// Login starts a fresh session for user.
func (a *Auth) Login(c *fiber.Ctx, user models.User) error {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.ID)
	return sess.Save()
}

// Logout ends the current session.
func (a *Auth) Logout(c *fiber.Ctx) error {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// AuthAdmin validates that the request has an Admin session
func (a *Auth) AuthAdmin() fiber.Handler {
	return a.AuthUser(models.RoleAdmin)
}

// AuthUser validates that the request has a session, and when roles are
// given, that the user holds one of them
func (a *Auth) AuthUser(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return a.authorize(c, roles)
	}
}

// authorize performs the authorization check
func (a *Auth) authorize(c *fiber.Ctx, roles []models.Role) error {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return err
	}

	id, _ := sess.Get(sessionUserKey).(string)
	if id == "" {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Not signed in",
			Type:    string(types.KindAuth),
		}
	}

	// The user may have been deleted since signing in
	user, ok := a.store.User(id)
	if !ok {
		_ = sess.Destroy()
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Session is no longer valid",
			Type:    string(types.KindAuth),
		}
	}

	if len(roles) > 0 && !hasRole(user.Role, roles) {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Not permitted for " + string(user.Role),
			Type:    "forbidden",
		}
	}

	c.Locals(localsUser, user)
	return c.Next()
}

func hasRole(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the user placed in context by AuthUser.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(localsUser).(models.User)
	return user, ok
}
