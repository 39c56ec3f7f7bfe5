package handler

import (
	"net/http"
	"testing"

	"github.com/docvault/server/model"
)

func TestAuthHandlerRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedRole   string
	}{
		{
			name:           "valid registration defaults to user role",
			body:           map[string]string{"username": "alice", "email": "alice@example.com", "password": "password123"},
			expectedStatus: http.StatusCreated,
			expectedRole:   model.RoleUser,
		},
		{
			name:           "explicit editor role",
			body:           map[string]string{"username": "bob", "email": "bob@example.com", "password": "password123", "role": "editor"},
			expectedStatus: http.StatusCreated,
			expectedRole:   model.RoleEditor,
		},
		{
			name:           "invalid role",
			body:           map[string]string{"username": "eve", "email": "eve@example.com", "password": "password123", "role": "root"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           map[string]string{"username": "carol", "email": "not-an-email", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password",
			body:           map[string]string{"username": "dave", "email": "dave@example.com", "password": "abc"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"username": "frank"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, "http://ingest.invalid")

			w := srv.do(t, "POST", "/api/v1/auth/register", "", tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var user model.User
				decodeJSON(t, w, &user)
				if user.Role != tt.expectedRole {
					t.Errorf("Expected role %s, got %s", tt.expectedRole, user.Role)
				}
				if user.PasswordHash != "" {
					t.Error("Expected no password hash in response")
				}
			}
		})
	}
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t, "http://ingest.invalid")

	first := srv.do(t, "POST", "/api/v1/auth/register", "",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "password123"})
	if first.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", first.Code)
	}

	// Different username and password, same email
	second := srv.do(t, "POST", "/api/v1/auth/register", "",
		map[string]string{"username": "other", "email": "alice@example.com", "password": "otherpass"})
	if second.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got %d", second.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	srv := newTestServer(t, "http://ingest.invalid")

	w := srv.do(t, "POST", "/api/v1/auth/register", "",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "password123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid login",
			body:           map[string]string{"email": "alice@example.com", "password": "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown email",
			body:           map[string]string{"email": "nobody@example.com", "password": "password123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			body:           map[string]string{"email": "alice@example.com", "password": "wrongpass"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"email": "alice@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	var unauthorizedBodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, "POST", "/api/v1/auth/login", "", tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var resp LoginResponse
				decodeJSON(t, w, &resp)
				if resp.AccessToken == "" {
					t.Error("Expected token in response")
				}
				if resp.Username != "alice" {
					t.Errorf("Expected username alice, got %s", resp.Username)
				}
				if resp.Role != model.RoleUser {
					t.Errorf("Expected role user, got %s", resp.Role)
				}
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				unauthorizedBodies = append(unauthorizedBodies, w.Body.String())
			}
		})
	}

	// Unknown email and wrong password must be indistinguishable
	if len(unauthorizedBodies) == 2 && unauthorizedBodies[0] != unauthorizedBodies[1] {
		t.Errorf("Expected identical failure responses, got %q and %q", unauthorizedBodies[0], unauthorizedBodies[1])
	}
}

func TestAuthHandlerMe(t *testing.T) {
	srv := newTestServer(t, "http://ingest.invalid")
	user, token := srv.seedUserWithToken(t, "alice", "alice@example.com", model.RoleEditor)

	w := srv.do(t, "GET", "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["id"] != user.ID || resp["username"] != "alice" || resp["role"] != model.RoleEditor {
		t.Errorf("Unexpected response: %v", resp)
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	srv := newTestServer(t, "http://ingest.invalid")
	_, token := srv.seedUserWithToken(t, "alice", "alice@example.com", model.RoleUser)

	w := srv.do(t, "POST", "/api/v1/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	// Without a token logout is unreachable
	w = srv.do(t, "POST", "/api/v1/auth/logout", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}
