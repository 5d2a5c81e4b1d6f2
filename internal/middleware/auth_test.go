package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"quizbox-backend/internal/models"
)

type fakeUserSource struct {
	user *models.User
	err  error
}

func (f *fakeUserSource) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newTestJWT() *JWTAuth {
	return NewJWTAuth("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundtrip(t *testing.T) {
	j := newTestJWT()
	userID := uuid.New()

	token, err := j.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	parsed, err := j.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if parsed != userID {
		t.Errorf("Expected user ID %s, got %s", userID, parsed)
	}
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	j := newTestJWT()

	refresh, err := j.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if _, err := j.ParseAccessToken(refresh); err == nil {
		t.Error("Expected refresh token to be rejected as access token")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	j := NewJWTAuth("test-secret", -1*time.Minute, time.Hour)

	token, err := j.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := j.ParseAccessToken(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := newTestJWT().GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	other := NewJWTAuth("other-secret", 15*time.Minute, time.Hour)
	if _, err := other.ParseAccessToken(token); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
}

func TestParseRefreshToken(t *testing.T) {
	j := newTestJWT()
	userID := uuid.New()

	token, err := j.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	parsedID, jti, exp, err := j.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken failed: %v", err)
	}
	if parsedID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, parsedID)
	}
	if jti == "" {
		t.Error("Expected non-empty jti")
	}
	if !exp.After(time.Now()) {
		t.Error("Expected expiry in the future")
	}
}

func TestRequireUser(t *testing.T) {
	j := newTestJWT()
	userID := uuid.New()
	activeUser := &models.User{ID: userID, Username: "alice", IsActive: true}

	token, err := j.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		users      *fakeUserSource
		wantStatus int
	}{
		{"valid token active user", "Bearer " + token, &fakeUserSource{user: activeUser}, http.StatusOK},
		{"missing header", "", &fakeUserSource{user: activeUser}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", &fakeUserSource{user: activeUser}, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", &fakeUserSource{user: activeUser}, http.StatusUnauthorized},
		{"unknown user", "Bearer " + token, &fakeUserSource{err: errors.New("no rows")}, http.StatusUnauthorized},
		{"inactive user", "Bearer " + token, &fakeUserSource{user: &models.User{ID: userID, IsActive: false}}, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := NewAuthenticator(j, tc.users)

			var gotUser *models.User
			handler := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			if tc.wantStatus == http.StatusOK && (gotUser == nil || gotUser.ID != userID) {
				t.Error("Expected authenticated user in context")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"admin", &models.User{ID: uuid.New(), IsAdmin: true, IsActive: true}, http.StatusOK},
		{"non-admin", &models.User{ID: uuid.New(), IsAdmin: false, IsActive: true}, http.StatusForbidden},
		{"no user in context", nil, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin/quizzes", nil)
			if tc.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), userKey, tc.user))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			if tc.wantStatus == http.StatusForbidden {
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode body: %v", err)
				}
				if body["error"] == "" {
					t.Error("Expected error message in 403 body")
				}
			}
		})
	}
}
