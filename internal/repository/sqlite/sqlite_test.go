package sqlite

import (
	"context"
	"testing"

	"github.com/arefin/miniddit/internal/model"
)

// newTestDB creates a fresh in-memory database with the full schema.
// Each test gets its own database; t.Cleanup closes it when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user row so that posts and comments, whose author
// column references users(id), can be written in tests.
func seedUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$10$fakehashfortestingonly",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

func TestEncodeDecodeIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"nil slice", nil, "[]"},
		{"empty slice", []string{}, "[]"},
		{"one id", []string{"a"}, `["a"]`},
		{"preserves order", []string{"c", "a", "b"}, `["c","a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := encodeIDs(tt.ids)
			if err != nil {
				t.Fatalf("encodeIDs() error = %v", err)
			}
			if encoded != tt.want {
				t.Errorf("encodeIDs() = %q, want %q", encoded, tt.want)
			}

			decoded, err := decodeIDs(encoded)
			if err != nil {
				t.Fatalf("decodeIDs() error = %v", err)
			}
			if decoded == nil {
				t.Fatal("decodeIDs() returned nil, want non-nil slice")
			}
			if len(decoded) != len(tt.ids) {
				t.Errorf("decodeIDs() len = %d, want %d", len(decoded), len(tt.ids))
			}
			for i := range decoded {
				if decoded[i] != tt.ids[i] {
					t.Errorf("decodeIDs()[%d] = %q, want %q", i, decoded[i], tt.ids[i])
				}
			}
		})
	}
}

func TestDecodeIDs_EmptyString(t *testing.T) {
	ids, err := decodeIDs("")
	if err != nil {
		t.Fatalf("decodeIDs(\"\") error = %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("decodeIDs(\"\") = %v, want empty non-nil slice", ids)
	}
}
