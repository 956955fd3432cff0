package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/memorystore"
	iso8601 "github.com/senseyeio/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newTokens(t *testing.T) *Tokens {
	t.Helper()

	lifetime, err := iso8601.ParseISO8601("P7D")
	require.NoError(t, err)

	tokens, err := NewTokens(Config{Secret: []byte("test-secret"), Lifetime: lifetime})
	require.NoError(t, err)

	return tokens
}

func newService(t *testing.T) *Service {
	t.Helper()

	service := NewService(memorystore.New().Users, newTokens(t))
	service.BcryptCost = bcrypt.MinCost

	return service
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokens(t)
	userID := primitive.NewObjectID()

	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	verified, err := tokens.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, verified)
}

func TestTokenExpired(t *testing.T) {
	tokens := newTokens(t)
	tokens.Now = func() time.Time { return time.Now().AddDate(0, 0, -8) }

	token, err := tokens.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestTokenRejectsOtherSecretsAndAudiences(t *testing.T) {
	tokens := newTokens(t)
	userID := primitive.NewObjectID()

	other, err := NewTokens(Config{Secret: []byte("another-secret"), Lifetime: tokens.config.Lifetime})
	require.NoError(t, err)
	foreign, err := other.Issue(userID)
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), foreign)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{"someone-else"},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), wrongAudience)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = tokens.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestNewTokensNeedsSecret(t *testing.T) {
	_, err := NewTokens(Config{})
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	session, err := service.Register(ctx, Registration{
		Username:  "jane_doe",
		Email:     "  Jane@Example.com ",
		Password:  "secret123",
		FirstName: "Jane",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.Equal(t, models.RoleUser, session.User.Role)
	assert.Equal(t, "Jane", session.User.Profile.FirstName)

	byUsername, err := service.Login(ctx, Credentials{Username: "jane_doe", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, byUsername.User.ID)

	byEmail, err := service.Login(ctx, Credentials{Username: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, byEmail.User.ID)

	user, err := service.Authenticate(ctx, byEmail.Token)
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	service := newService(t)

	_, err := service.Register(context.Background(), Registration{
		Username: "a!",
		Email:    "nope",
		Password: "123",
	})

	var validationError *models.ValidationError
	require.ErrorAs(t, err, &validationError)

	messages := map[string]bool{}
	for _, field := range validationError.Fields {
		messages[field.Message] = true
	}
	assert.True(t, messages["Username must be at least 3 characters long"])
	assert.True(t, messages["Please provide a valid email"])
	assert.True(t, messages["Password must be at least 6 characters long"])
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	_, err := service.Register(ctx, Registration{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, Registration{Username: "other", Email: "JANE@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, store.ErrUserExists)

	_, err = service.Register(ctx, Registration{Username: "jane", Email: "other@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, store.ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	_, err := service.Register(ctx, Registration{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Login(ctx, Credentials{Username: "jane", Password: "wrong-password"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = service.Login(ctx, Credentials{Username: "nobody", Password: "secret123"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = service.Login(ctx, Credentials{})
	var validationError *models.ValidationError
	require.ErrorAs(t, err, &validationError)
	assert.Len(t, validationError.Fields, 2)
}

func TestLoginDeactivated(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, service.Users.Insert(ctx, &models.User{
		Username:     "retired",
		Email:        "retired@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsActive:     false,
	}))

	_, err = service.Login(ctx, Credentials{Username: "retired", Password: "secret123"})
	assert.Equal(t, ErrAccountDeactivated, err)
}

func TestProfileAndDeleteAccount(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	session, err := service.Register(ctx, Registration{Username: "jane", Email: "jane@example.com", Password: "secret123", Phone: "0123"})
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	department := "Traffic"
	updated, err := service.UpdateProfile(ctx, user, models.ProfilePatch{Department: &department})
	require.NoError(t, err)
	assert.Equal(t, "Traffic", updated.Profile.Department)
	assert.Equal(t, "0123", updated.Profile.Phone)

	require.NoError(t, service.DeleteAccount(ctx, user))

	_, err = service.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = service.Me(ctx, user.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
