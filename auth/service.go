package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
)

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type NewUserInput struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin manager"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"user"`
}

type Service struct {
	users    UserStore
	tokens   *Tokens
	denylist Denylist
	validate *validator.Validate
	cost     int
}

func NewService(users UserStore, tokens *Tokens, denylist Denylist) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: exp,
		Identity:  Identity{ID: u.ID, Username: u.Username, Role: u.Role},
	}, nil
}

// Authenticate turns a bearer token into an Identity.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (Identity, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	revoked, err := s.denylist.Revoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// Logout revokes the token until its own expiry.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return ErrUnauthenticated
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// CreateUser validates the input and stores a new staff account.
func (s *Service) CreateUser(ctx context.Context, in NewUserInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin seeds the first admin account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if _, err := s.CreateUser(ctx, NewUserInput{Username: username, Password: password, Role: string(RoleAdmin)}); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("username", username).Msg("seeded admin account")
	return nil
}
