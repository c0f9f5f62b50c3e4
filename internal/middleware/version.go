package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/store"
)

// StateVersionHeader carries the revision of the saved state document
const StateVersionHeader = "X-State-Version"

// StateVersion reports the state document revision on every response, read
// after the handler so mutations report the revision they produced
func StateVersion(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(StateVersionHeader, strconv.FormatUint(st.Version(), 10))
		return err
	}
}
