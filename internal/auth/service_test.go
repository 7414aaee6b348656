package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/viewfinder/viewfinder/internal/db/dbgen"
)

type memStore struct {
	byID     map[string]dbgen.User
	captures map[string]int64
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]dbgen.User{}, captures: map[string]int64{}}
}

func (m *memStore) CountCapturesByOwner(_ context.Context, ownerID string) (int64, error) {
	return m.captures[ownerID], nil
}

func (m *memStore) CreateUser(_ context.Context, arg dbgen.CreateUserParams) (dbgen.User, error) {
	for _, u := range m.byID {
		if u.Email == arg.Email {
			return dbgen.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u := dbgen.User{ID: arg.ID, Email: arg.Email, Password: arg.Password, DisplayName: arg.DisplayName, CreatedAt: time.Now()}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (m *memStore) GetUserByID(_ context.Context, id string) (dbgen.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newTestService() *Service {
	s := NewService(newMemStore(), "test-secret")
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	reg, err := s.Register(ctx, "ana@example.com", "correct horse", "Ana")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.HasPrefix(reg.User.ID, "user_") {
		t.Errorf("user id = %q", reg.User.ID)
	}

	if _, err := s.Register(ctx, "ana@example.com", "another pass", "Ana 2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register err = %v", err)
	}

	login, err := s.Login(ctx, "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := s.ValidateToken(login.Token)
	if err != nil || id != reg.User.ID {
		t.Errorf("ValidateToken = %q, %v", id, err)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ana@example.com", "wrong"},
		{"unknown email", "bob@example.com", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Login(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v", err)
			}
		})
	}

	if _, err := s.GetUser(ctx, "user_missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser err = %v", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := newTestService()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_x",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredStr, _ := expired.SignedString(s.tokens.secret)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_x"})
	foreignStr, _ := foreign.SignedString([]byte("other-secret"))

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	noSubStr, _ := noSub.SignedString(s.tokens.secret)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_x"})
	noExpStr, _ := noExp.SignedString(s.tokens.secret)

	otherAlg := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user_x",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	otherAlgStr, _ := otherAlg.SignedString(s.tokens.secret)

	for name, tok := range map[string]string{
		"expired":        expiredStr,
		"foreign secret": foreignStr,
		"no subject":     noSubStr,
		"no expiry":      noExpStr,
		"HS512":          otherAlgStr,
		"garbage":        "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	s := newTestService()
	token, err := s.tokens.issue("user_abc")
	if err != nil {
		t.Fatal(err)
	}

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserIDFromContext(r.Context())))
	})

	tests := []struct {
		name       string
		handler    http.Handler
		header     string
		wantStatus int
		wantBody   string
	}{
		{"required ok", s.AuthMiddleware(echo), "Bearer " + token, http.StatusOK, "user_abc"},
		{"required missing", s.AuthMiddleware(echo), "", http.StatusUnauthorized, ""},
		{"required wrong scheme", s.AuthMiddleware(echo), "Basic " + token, http.StatusUnauthorized, ""},
		{"optional anonymous", s.OptionalAuth(echo), "", http.StatusOK, ""},
		{"optional bad token", s.OptionalAuth(echo), "Bearer nope", http.StatusOK, ""},
		{"optional ok", s.OptionalAuth(echo), "Bearer " + token, http.StatusOK, "user_abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := NewHandler(newTestService())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"missing fields", `{"email":"a@b.c"}`, http.StatusBadRequest},
		{"short password", `{"email":"a@b.c","password":"short","displayName":"A"}`, http.StatusBadRequest},
		{"created", `{"email":"a@b.c","password":"long enough","displayName":"A"}`, http.StatusCreated},
		{"conflict", `{"email":"a@b.c","password":"long enough","displayName":"A"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	h := NewHandler(newTestService())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid email", `{"email":"not-an-email","password":"long enough","displayName":"A"}`, http.StatusBadRequest},
		{"long display name", `{"email":"x@y.z","password":"long enough","displayName":"` + strings.Repeat("n", 65) + `"}`, http.StatusBadRequest},
		{"mixed case", `{"email":"  Ana@Example.COM ","password":"long enough","displayName":"Ana"}`, http.StatusCreated},
		{"same email lowercased", `{"email":"ana@example.com","password":"long enough","displayName":"Ana"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ANA@example.com","password":"long enough"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterDefaultsDisplayName(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	reg, err := s.Register(ctx, "mira.k@example.com", "long enough", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.DisplayName != "mira.k" {
		t.Errorf("display name = %q, want mira.k", reg.User.DisplayName)
	}

	h := NewHandler(s)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"jo@example.com","password":"long enough"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res AuthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.User.DisplayName != "jo" {
		t.Errorf("display name = %q, want jo", res.User.DisplayName)
	}
}

func TestMeReportsCaptureCount(t *testing.T) {
	store := newMemStore()
	s := NewService(store, "test-secret")
	s.cost = bcrypt.MinCost

	reg, err := s.Register(context.Background(), "ana@example.com", "long enough", "Ana")
	if err != nil {
		t.Fatal(err)
	}
	store.captures[reg.User.ID] = 3

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	rec := httptest.NewRecorder()
	s.AuthMiddleware(http.HandlerFunc(NewHandler(s).Me)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var p Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != reg.User.ID || p.DisplayName != "Ana" || p.Captures != 3 {
		t.Errorf("profile = %+v", p)
	}
}
