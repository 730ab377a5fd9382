package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/dto"
	"github.com/Leileisme/Shop-back/models"
)

// Context keys set on successful authentication.
const (
	ContextUser  = "user"
	ContextToken = "token"
)

// Login runs the primary-credential strategy and hangs the resolved user on
// the context. The controller behind it issues and registers the token.
func Login(strategies *auth.Strategies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abortWith(c, http.StatusBadRequest, "invalid field")
			return
		}

		outcome := strategies.Login(c.Request.Context(), body.Account, body.Password)
		if !outcome.Authenticated {
			switch outcome.Reason {
			case auth.ReasonMissingCredentials:
				abortWith(c, http.StatusBadRequest, "invalid field")
			case auth.ReasonAccountNotFound:
				abortWith(c, http.StatusUnauthorized, "account does not exist")
			case auth.ReasonWrongPassword:
				abortWith(c, http.StatusUnauthorized, "wrong password")
			default:
				abortWith(c, http.StatusInternalServerError, "unknown error")
			}
			return
		}

		c.Set(ContextUser, outcome.User)
		c.Next()
	}
}

// JWT runs the bearer-token strategy for every protected route. A revoked
// token gets the same message as a malformed one on purpose: the client
// cannot tell revocation from forgery.
func JWT(strategies *auth.Strategies) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome := strategies.Bearer(c.Request.Context(), c.GetHeader("Authorization"), c.FullPath())
		if !outcome.Authenticated {
			switch outcome.Reason {
			case auth.ReasonTokenExpired:
				abortWith(c, http.StatusUnauthorized, "token expired")
			case auth.ReasonTokenMalformed, auth.ReasonTokenRevoked:
				abortWith(c, http.StatusUnauthorized, "invalid token")
			default:
				abortWith(c, http.StatusInternalServerError, "unknown error")
			}
			return
		}

		c.Set(ContextUser, outcome.User)
		c.Set(ContextToken, outcome.Token)
		c.Next()
	}
}

// Admin gates a route on the admin role, after JWT has resolved the user.
// A valid identity with the wrong role is 403, not 401.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			abortWith(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Login or JWT.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentToken returns the raw bearer token set by JWT.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
