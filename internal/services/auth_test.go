package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"plain letters", "alice", true},
		{"digits and underscore", "user_42", true},
		{"allowed specials", "a.b@c+d-e", true},
		{"empty", "", false},
		{"space", "bad name", false},
		{"hash", "user#1", false},
		{"unicode", "usér", false},
		{"max length", strings.Repeat("a", 150), true},
		{"over max length", strings.Repeat("a", 151), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateUsername(tc.username)
			if tc.wantOK && msg != "" {
				t.Errorf("Expected valid, got error %q", msg)
			}
			if !tc.wantOK && msg == "" {
				t.Error("Expected validation error, got none")
			}
		})
	}
}

func TestUniqueViolationFields(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
	}{
		{"username constraint", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, "username"},
		{"email constraint", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, "email"},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), "username"},
		{"other pg error", &pgconn.PgError{Code: "23503"}, ""},
		{"plain error", errors.New("connection reset"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := uniqueViolationFields(tc.err)
			if tc.wantField == "" {
				if fields != nil {
					t.Errorf("Expected nil for non-unique-violation, got %v", fields)
				}
				return
			}
			if fields[tc.wantField] == "" {
				t.Errorf("Expected already-exists message under %q, got %v", tc.wantField, fields)
			}
		})
	}
}

func TestDummyHashIsComparable(t *testing.T) {
	err := bcrypt.CompareHashAndPassword(dummyHash, []byte("whatever"))
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Errorf("Expected a mismatch from a well-formed hash, got %v", err)
	}
}

func TestEmailRegex(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@example.org"}
	invalid := []string{"not-an-email", "a@b", "@example.com"}

	for _, e := range valid {
		if !emailRegex.MatchString(e) {
			t.Errorf("Expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if emailRegex.MatchString(e) {
			t.Errorf("Expected %q to be invalid", e)
		}
	}
}
