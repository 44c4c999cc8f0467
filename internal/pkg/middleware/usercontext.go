package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/LwandleM/SafeSuburb/internal/pkg/session"
	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling so handlers only ever read usercontext.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	rawID := sess.Get(session.KeyUserID)
	if rawID == nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	userID, ok := rawID.(uint)
	if !ok {
		// Session values round-trip through the storage codec as strings.
		if s, sok := rawID.(string); sok {
			if v, perr := strconv.ParseUint(s, 10, 64); perr == nil {
				userID = uint(v)
				ok = true
			}
		}
	}
	if !ok || userID == 0 {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID,
		Username:   session.GetSessionValue(c, session.KeyUserName),
		Role:       session.GetSessionValue(c, session.KeyUserRole),
		Approved:   session.GetSessionValue(c, session.KeyApproved) == "true",
		IsLoggedIn: true,
	})

	return c.Next()
}
