package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"quizbox-backend/internal/middleware"
	"quizbox-backend/internal/models"
	"quizbox-backend/internal/repository"
)

const blacklistPrefix = "blacklist:refresh:"

type AuthService struct {
	users *repository.UserRepo
	redis *redis.Client
	jwt   *middleware.JWTAuth
}

func NewAuthService(users *repository.UserRepo, redisClient *redis.Client, jwtAuth *middleware.JWTAuth) *AuthService {
	return &AuthService{users: users, redis: redisClient, jwt: jwtAuth}
}

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// dummyHash keeps the unknown-username path doing the same bcrypt work as a
// real comparison, so response timing doesn't reveal whether the username
// exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user"), 12)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)

	if msg := validateUsername(req.Username); msg != "" {
		fieldErrors["username"] = msg
	}
	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Enter a valid email address."
	}
	if req.Password == "" {
		fieldErrors["password"] = "This field is required."
	}

	// Uniqueness checks; the store's unique constraints back these up
	if _, ok := fieldErrors["username"]; !ok {
		_, err := s.users.GetByUsername(ctx, req.Username)
		if err == nil {
			fieldErrors["username"] = "A user with that username already exists."
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if req.Email != "" {
		if _, ok := fieldErrors["email"]; !ok {
			_, err := s.users.GetByEmail(ctx, req.Email)
			if err == nil {
				fieldErrors["email"] = "A user with that email already exists."
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var email *string
	if req.Email != "" {
		email = &req.Email
	}

	user := &models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsAdmin:      false,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check; the
		// store's unique constraint reports it as the same field error.
		if fields := uniqueViolationFields(err); fields != nil {
			return nil, &ValidationError{Fields: fields}
		}
		return nil, err
	}

	return user, nil
}

func uniqueViolationFields(err error) map[string]string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return map[string]string{"email": "A user with that email already exists."}
	}
	return map[string]string{"username": "A user with that username already exists."}
}

// Login verifies username/password and mints a credential pair. Unknown
// username, wrong password and deactivated account all produce the same
// response so usernames can't be enumerated.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	invalid := &UnauthorizedError{Message: "Invalid username or password"}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, invalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	if !user.IsActive {
		return nil, invalid
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid, non-revoked refresh token for a new pair. The
// used token is blacklisted so each refresh token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	invalid := &UnauthorizedError{Message: "Invalid or expired refresh token"}

	userID, jti, exp, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, invalid
	}

	revoked, err := s.redis.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked > 0 {
		return nil, invalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, invalid
	}

	if err := s.blacklist(ctx, jti, exp); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout revokes the presented refresh token. The handler collapses any
// error from this path into a generic invalid-token response.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, jti, exp, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.blacklist(ctx, jti, exp)
}

// EnsureAdmin creates the bootstrap admin account if it doesn't exist yet.
// The admin flag is not reachable through the API, so this is the only way
// to provision one.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
	}
	return s.users.Create(ctx, admin)
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthTokens, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthTokens{Access: access, Refresh: refresh}, nil
}

// blacklist keys expire with the token itself, so the set stays bounded.
func (s *AuthService) blacklist(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

func validateUsername(username string) string {
	if username == "" {
		return "This field is required."
	}
	if len(username) > 150 {
		return "Ensure this field has no more than 150 characters."
	}
	if !usernameRegex.MatchString(username) {
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}
	return ""
}
