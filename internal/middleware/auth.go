package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"quizbox-backend/internal/models"
)

type contextKey string

const userKey contextKey = "auth_user"

// JWTAuth signs and verifies the two credential kinds: short-lived access
// tokens and longer-lived refresh tokens carrying a revocable jti.
type JWTAuth struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewJWTAuth(secret string, accessTTL, refreshTTL time.Duration) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret), AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func (j *JWTAuth) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"typ":     "access",
		"exp":     now.Add(j.AccessTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTAuth) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"jti":     uuid.NewString(),
		"typ":     "refresh",
		"exp":     now.Add(j.RefreshTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ParseAccessToken verifies signature, expiry and token type, returning the
// bound user ID.
func (j *JWTAuth) ParseAccessToken(tokenStr string) (uuid.UUID, error) {
	claims, err := j.parse(tokenStr, "access")
	if err != nil {
		return uuid.Nil, err
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in token")
	}
	return userID, nil
}

// ParseRefreshToken verifies a refresh token and returns the bound user ID,
// the jti used for blacklisting, and the expiry.
func (j *JWTAuth) ParseRefreshToken(tokenStr string) (uuid.UUID, string, time.Time, error) {
	claims, err := j.parse(tokenStr, "refresh")
	if err != nil {
		return uuid.Nil, "", time.Time{}, err
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", time.Time{}, fmt.Errorf("invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return uuid.Nil, "", time.Time{}, fmt.Errorf("missing jti claim")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return uuid.Nil, "", time.Time{}, fmt.Errorf("missing exp claim")
	}

	return userID, jti, exp.Time, nil
}

func (j *JWTAuth) parse(tokenStr, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, fmt.Errorf("unexpected token type")
	}

	return claims, nil
}

// UserSource resolves a token's user ID to the stored user record.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticator is the access gate: every protected route passes through
// RequireUser, admin routes additionally through RequireAdmin.
type Authenticator struct {
	jwt   *JWTAuth
	users UserSource
}

func NewAuthenticator(jwtAuth *JWTAuth, users UserSource) *Authenticator {
	return &Authenticator{jwt: jwtAuth, users: users}
}

// RequireUser validates the bearer access token and resolves it to an active
// user, which is attached to the request context. Any failure is a 401.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeAuthError(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		userID, err := a.jwt.ParseAccessToken(parts[1])
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil || user == nil || !user.IsActive {
			writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated non-admin users with 403. It must be
// stacked after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin {
			writeAuthError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user attached by RequireUser, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
