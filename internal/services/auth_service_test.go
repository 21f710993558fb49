package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/testutil"
)

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	userRepo *testutil.FakeUserRepository
	tokens   *TokenService
	service  *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.userRepo = testutil.NewFakeUserRepository()
	suite.tokens = NewTokenService("access-secret", "refresh-secret")
	suite.service = NewAuthService(suite.userRepo, suite.tokens)
}

func (suite *AuthServiceTestSuite) registerTestUser(username string) *models.User {
	user, err := suite.service.Register(suite.ctx, RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: username,
		LastName:  "Test",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	user := suite.registerTestUser("alice")

	suite.False(user.ID.IsZero())
	suite.Equal("alice", user.Username)
	suite.Equal("alice@example.com", user.Email)
	suite.Equal(models.RoleUser, user.Role)
	suite.True(user.IsActive)

	// Stored password is hashed, never the plaintext.
	suite.NotEqual("password123", user.Password)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
}

func (suite *AuthServiceTestSuite) TestRegister_NormalizesEmail() {
	user, err := suite.service.Register(suite.ctx, RegisterInput{
		Username: "bob",
		Email:    "  Bob@Example.COM ",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.Equal("bob@example.com", user.Email)
}

func (suite *AuthServiceTestSuite) TestRegister_ShortUsername() {
	_, err := suite.service.Register(suite.ctx, RegisterInput{
		Username: "ab",
		Email:    "ab@example.com",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrUsernameTooShort)
}

func (suite *AuthServiceTestSuite) TestRegister_ShortPassword() {
	_, err := suite.service.Register(suite.ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "12345",
	})
	suite.ErrorIs(err, ErrPasswordTooShort)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateUsername() {
	suite.registerTestUser("alice")

	_, err := suite.service.Register(suite.ctx, RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrUsernameTaken)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.registerTestUser("alice")

	_, err := suite.service.Register(suite.ctx, RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.registerTestUser("alice")

	result, err := suite.service.Login(suite.ctx, LoginInput{
		Username: "alice",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(result.AccessToken)
	suite.NotEmpty(result.RefreshToken)
	suite.Equal("alice", result.User.Username)

	claims, err := suite.tokens.ValidateAccessToken(result.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(result.User.ID.Hex(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.registerTestUser("alice")

	_, err := suite.service.Login(suite.ctx, LoginInput{
		Username: "alice",
		Password: "wrong-password",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	_, err := suite.service.Login(suite.ctx, LoginInput{
		Username: "ghost",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveUser() {
	user := suite.registerTestUser("alice")
	user.IsActive = false
	suite.Require().NoError(suite.userRepo.Update(suite.ctx, user))

	// Indistinguishable from wrong credentials.
	_, err := suite.service.Login(suite.ctx, LoginInput{
		Username: "alice",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestRefresh_IssuesNewAccessToken() {
	user := suite.registerTestUser("alice")
	result, err := suite.service.Login(suite.ctx, LoginInput{Username: "alice", Password: "password123"})
	suite.Require().NoError(err)

	accessToken, err := suite.service.Refresh(suite.ctx, result.RefreshToken)
	suite.Require().NoError(err)

	claims, err := suite.tokens.ValidateAccessToken(accessToken)
	suite.Require().NoError(err)
	suite.Equal(user.ID.Hex(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestRefresh_RejectsAccessToken() {
	suite.registerTestUser("alice")
	result, err := suite.service.Login(suite.ctx, LoginInput{Username: "alice", Password: "password123"})
	suite.Require().NoError(err)

	_, err = suite.service.Refresh(suite.ctx, result.AccessToken)
	suite.ErrorIs(err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestRefresh_RejectsGarbage() {
	_, err := suite.service.Refresh(suite.ctx, "not-a-token")
	suite.ErrorIs(err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestRefresh_InactiveUser() {
	user := suite.registerTestUser("alice")
	result, err := suite.service.Login(suite.ctx, LoginInput{Username: "alice", Password: "password123"})
	suite.Require().NoError(err)

	user.IsActive = false
	suite.Require().NoError(suite.userRepo.Update(suite.ctx, user))

	_, err = suite.service.Refresh(suite.ctx, result.RefreshToken)
	suite.ErrorIs(err, ErrTokenInvalid)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_PartialFields() {
	user := suite.registerTestUser("alice")

	newFirst := "Alicia"
	updated, err := suite.service.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{
		FirstName: &newFirst,
	})
	suite.Require().NoError(err)
	suite.Equal("Alicia", updated.FirstName)
	suite.Equal("Test", updated.LastName)
	suite.Equal("alice@example.com", updated.Email)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_DuplicateEmail() {
	suite.registerTestUser("alice")
	bob := suite.registerTestUser("bob")

	taken := "alice@example.com"
	_, err := suite.service.UpdateProfile(suite.ctx, bob.ID, UpdateProfileInput{Email: &taken})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.service.GetUser(suite.ctx, primitive.NewObjectID())
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *AuthServiceTestSuite) TestListActiveUsers_ExcludesInactive() {
	suite.registerTestUser("alice")
	bob := suite.registerTestUser("bob")
	bob.IsActive = false
	suite.Require().NoError(suite.userRepo.Update(suite.ctx, bob))

	users, err := suite.service.ListActiveUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	suite.Equal("alice", users[0].Username)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
