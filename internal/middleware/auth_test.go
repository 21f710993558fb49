package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/services"
)

func setupAuthRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
	})
	return r
}

func doProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	r := setupAuthRouter(tokens)

	w := doProtected(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_MISSING", errorCode(t, w))
}

func TestRequireAuth_NotBearer(t *testing.T) {
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	r := setupAuthRouter(tokens)

	w := doProtected(r, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, w))
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	r := setupAuthRouter(tokens)

	w := doProtected(r, "Bearer not.a.token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, w))
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	tokens := services.NewTokenService("shared-secret", "shared-secret")
	r := setupAuthRouter(tokens)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	refresh, err := tokens.GenerateRefreshToken(user)
	require.NoError(t, err)

	w := doProtected(r, "Bearer "+refresh)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, w))
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	r := setupAuthRouter(tokens)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
		"role":    string(models.RoleUser),
		"kind":    "access",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	w := doProtected(r, "Bearer "+signed)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, w))
}

func TestRequireAuth_ValidTokenSetsUser(t *testing.T) {
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	r := setupAuthRouter(tokens)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	access, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)

	w := doProtected(r, "Bearer "+access)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, user.ID.Hex(), body.UserID)
}
