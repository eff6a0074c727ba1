package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

const (
	ContextUser   = "user"
	ContextUserID = "userID"
)

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Auth verifies the bearer token and loads the user it names, so role
// flags always reflect the stored record.
func Auth(tokens *utils.TokenIssuer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			var authErr *utils.AuthError
			if errors.As(err, &authErr) && authErr.Kind == utils.AuthExpired {
				abort(c, http.StatusUnauthorized, "Not authorized, token expired")
				return
			}
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		user, err := users.FindByID(c.Request.Context(), oid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID.Hex())
		c.Next()
	}
}

// CurrentUser returns the user set by Auth, or nil on unauthenticated routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func require(allowed func(*models.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		if !allowed(user) {
			abort(c, http.StatusForbidden, message)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return require(func(u *models.User) bool { return u.IsAdmin }, "Not authorized as an admin")
}

func RequireDoctor() gin.HandlerFunc {
	return require(func(u *models.User) bool { return u.IsDoctor }, "Not authorized as a doctor")
}
