package auth

import (
	"context"
	"errors"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TokenIssuer   = "road-safety-guard"
	TokenAudience = "road-safety-guard-api"

	defaultSecret   = "fallback_secret"
	defaultLifetime = "P7D"
)

var ErrInvalidToken = models.Unauthenticated("Token is not valid")

type Config struct {
	Secret   []byte
	Lifetime iso8601.Duration
}

// ConfigFromEnvironment reads JWT_SECRET and ROADSAFETY_TOKEN_LIFETIME (an
// ISO 8601 duration such as P7D or PT12H).
func ConfigFromEnvironment() (Config, error) {
	env := util.GetEnvironmentVariables()

	secret := env["JWT_SECRET"]
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the fallback secret")
		secret = defaultSecret
	}

	lifetime, err := iso8601.ParseISO8601(util.EnvironmentOrDefault(env, "ROADSAFETY_TOKEN_LIFETIME", defaultLifetime))
	if err != nil {
		return Config{}, err
	}

	return Config{Secret: []byte(secret), Lifetime: lifetime}, nil
}

// Tokens issues HS256 session tokens and checks the ones presented back.
type Tokens struct {
	config    Config
	validator *validator.Validator

	Now func() time.Time
}

func NewTokens(config Config) (*Tokens, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}

	keyFunc := func(context.Context) (interface{}, error) {
		return config.Secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		TokenIssuer,
		[]string{TokenAudience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &Tokens{
		config:    config,
		validator: jwtValidator,
		Now:       time.Now,
	}, nil
}

func (t *Tokens) Issue(userID primitive.ObjectID) (string, error) {
	now := t.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(t.config.Lifetime.Shift(now)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.config.Secret)
}

// Verify returns the id of the user a token was issued to.
func (t *Tokens) Verify(ctx context.Context, token string) (primitive.ObjectID, error) {
	validated, err := t.validator.ValidateToken(ctx, token)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}

	claims, ok := validated.(*validator.ValidatedClaims)
	if !ok {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.RegisteredClaims.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}

	return userID, nil
}
