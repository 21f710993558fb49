package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/constants"
	apierrors "github.com/Sahitha-chunduri/projectflow/internal/errors"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
)

// RequireAuth verifies the bearer access token and stores the caller's
// identity in the request context. Missing, expired and malformed tokens each
// produce a distinct 401 reason code.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenMissing, "Authorization header required")
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenExpired, "Access token has expired")
			} else {
				apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Access token is invalid")
			}
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			apierrors.Unauthorized(c, apierrors.ErrCodeTokenInvalid, "Access token is invalid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok || userID.IsZero() {
		return primitive.NilObjectID, false
	}
	return userID, true
}
