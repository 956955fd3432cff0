package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = models.BadRequest("Invalid credentials")
	ErrAccountDeactivated = models.BadRequest("Account is deactivated")
	ErrUnknownUser        = models.Unauthenticated("Token is not valid")
)

type Registration struct {
	Username   string `json:"username" validate:"min=3,username"`
	Email      string `json:"email" validate:"email"`
	Password   string `json:"password" validate:"min=6"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is handed back after registering or logging in.
type Session struct {
	Token string             `json:"token"`
	User  models.SessionUser `json:"user"`
}

type Service struct {
	Users  store.UserStore
	Tokens *Tokens

	Now        func() time.Time
	BcryptCost int
}

func NewService(users store.UserStore, tokens *Tokens) *Service {
	return &Service{
		Users:      users,
		Tokens:     tokens,
		Now:        time.Now,
		BcryptCost: bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, registration Registration) (*Session, error) {
	registration.Username = strings.TrimSpace(registration.Username)
	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))

	if err := models.Validate(&registration); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	user := &models.User{
		Username:     registration.Username,
		Email:        registration.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Profile: models.Profile{
			FirstName:  registration.FirstName,
			LastName:   registration.LastName,
			Phone:      registration.Phone,
			Department: registration.Department,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Users.Insert(ctx, user); err != nil {
		return nil, err
	}

	return s.session(user)
}

// Login accepts either the username or the email address.
func (s *Service) Login(ctx context.Context, credentials Credentials) (*Session, error) {
	if err := models.Validate(&credentials); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByLogin(ctx, strings.TrimSpace(credentials.Username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: user.Session()}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.Get(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUnknownUser
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUnknownUser
	}

	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, patch models.ProfilePatch) (*models.User, error) {
	profile := actor.Profile
	patch.Apply(&profile)

	return s.Users.UpdateProfile(ctx, actor.ID, profile)
}

func (s *Service) DeleteAccount(ctx context.Context, actor *models.User) error {
	return s.Users.Delete(ctx, actor.ID)
}

func (s *Service) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.Users.Get(ctx, userID)
}
