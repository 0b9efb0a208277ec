package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/auth"
	"github.com/rmoreas/library-admin/internal/domain/user"
	"github.com/rmoreas/library-admin/internal/http/handlers"
)

// Keep Gin quiet during tests

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake credential store implementing handlers.CredentialStore

type fakeUsers struct {
	registerFn     func(username, password, name string, role user.Role) (user.User, error)
	authenticateFn func(username, password string) (user.User, error)
}

func (f *fakeUsers) Register(username, password, name string, role user.Role) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(username, password, name, role)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Authenticate(username, password string) (user.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(username, password)
	}
	return user.User{}, nil
}

// small helper which returns a gin engine mounting one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func newJWT() *auth.Manager {
	return auth.NewManager("test-secret", 15*time.Minute)
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUsers)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "success",
			body: `{"username":"admin","password":"admin123"}`,
			storeSetUp: func(f *fakeUsers) {
				f.authenticateFn = func(username, password string) (user.User, error) {
					return user.User{Username: username, Name: "Administrador", Role: user.RoleAdmin}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "invalid_credentials",
			body: `{"username":"admin","password":"wrong"}`,
			storeSetUp: func(f *fakeUsers) {
				f.authenticateFn = func(username, password string) (user.User, error) {
					return user.User{}, user.ErrInvalidCredentials
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       "invalid_credentials",
		},
		{
			name:           "missing_fields",
			body:           `{"username":"admin"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsers{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewAuthHandler(store, newJWT())

			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					AccessToken string `json:"accessToken"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.AccessToken == "" {
					t.Fatalf("no access token in %s", w.Body.String())
				}
			}

			if tt.wantCode != "" {
				var resp struct {
					Error handlers.APIError `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.Error.Code != tt.wantCode {
					t.Fatalf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUsers)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"username":"maria","password":"s3cret1","passwordConfirm":"s3cret1","name":"Maria"}`,
			storeSetUp: func(f *fakeUsers) {
				f.registerFn = func(username, password, name string, role user.Role) (user.User, error) {
					if role != user.RoleUser {
						t.Errorf("self-service signup got role %q, want user", role)
					}
					return user.User{Username: username, Name: name, Role: role}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "username_taken",
			body: `{"username":"admin","password":"s3cret1","passwordConfirm":"s3cret1","name":"Y"}`,
			storeSetUp: func(f *fakeUsers) {
				f.registerFn = func(username, password, name string, role user.Role) (user.User, error) {
					return user.User{}, user.ErrUserExists
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "password_confirmation_mismatch",
			body:           `{"username":"maria","password":"s3cret1","passwordConfirm":"different","name":"Maria"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_name",
			body:           `{"username":"maria","password":"s3cret1","passwordConfirm":"s3cret1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsers{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewAuthHandler(store, newJWT())

			r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
