package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/viewfinder/viewfinder/internal/db/dbgen"
	"github.com/viewfinder/viewfinder/internal/typeid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is the subset of dbgen.Queries the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, arg dbgen.CreateUserParams) (dbgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (dbgen.User, error)
	GetUserByID(ctx context.Context, id string) (dbgen.User, error)
	CountCapturesByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Service manages photographer accounts. An account only unlocks the
// capture gallery; live sessions and exports work without one.
type Service struct {
	queries UserStore
	tokens  tokenSigner
	cost    int

	// Hash compared against when the email is unknown, so a failed login
	// costs the same either way.
	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(queries UserStore, jwtSecret string) *Service {
	return &Service{
		queries: queries,
		tokens:  tokenSigner{secret: []byte(jwtSecret), ttl: tokenTTL},
		cost:    12,
	}
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Profile is the signed-in user together with their gallery size.
type Profile struct {
	User
	Captures int64 `json:"captures"`
}

func toUser(u dbgen.User) User {
	return User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// DefaultDisplayName is the local part of email, used when no name is given.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Register creates an account. An empty displayName falls back to the
// local part of the email.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	if displayName == "" {
		displayName = DefaultDisplayName(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row, err := s.queries.CreateUser(ctx, dbgen.CreateUserParams{
		ID:          typeid.NewUserID(),
		Email:       email,
		Password:    string(hash),
		DisplayName: displayName,
	})
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == "23505": // unique_violation
		return nil, ErrEmailTaken
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.session(row)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		bcrypt.CompareHashAndPassword(s.unknownUserHash(), []byte(password))
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(row)
}

func (s *Service) session(row dbgen.User) (*AuthResult, error) {
	token, err := s.tokens.issue(row.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: toUser(row)}, nil
}

func (s *Service) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("viewfinder"), s.cost)
	})
	return s.dummyHash
}

// ValidateToken returns the user id a token was issued to.
func (s *Service) ValidateToken(token string) (string, error) {
	return s.tokens.subject(token)
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	row, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := toUser(row)
	return &u, nil
}

// Profile returns the user with the number of captures in their gallery.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	n, err := s.queries.CountCapturesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count captures: %w", err)
	}
	return &Profile{User: *u, Captures: n}, nil
}
