package security_test

import (
	"strings"
	"testing"

	"github.com/geocoder89/usershub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("greaterthaneight", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "greaterthaneight" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if err := security.CheckPassword(hash, "greaterthaneight"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong"); err != security.ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := security.HashPassword("test", 0)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	err := security.CheckPassword("not-a-hash", "test")
	if err == nil || err == security.ErrPasswordMismatch {
		t.Fatalf("expected a malformed hash error, got %v", err)
	}
}

func TestHashPasswordLongAndMultibyte(t *testing.T) {
	cases := map[string]string{
		"ascii over 72 bytes": strings.Repeat("a", 80),
		"72 multibyte runes":  strings.Repeat("é", 72),
	}

	for name, plain := range cases {
		t.Run(name, func(t *testing.T) {
			hash, err := security.HashPassword(plain, bcrypt.MinCost)
			if err != nil {
				t.Fatalf("hash: %v", err)
			}

			if err := security.CheckPassword(hash, plain); err != nil {
				t.Fatalf("expected password to match: %v", err)
			}

			// the tail past byte 72 must still count
			other := plain[:len(plain)-1] + "b"
			if err := security.CheckPassword(hash, other); err != security.ErrPasswordMismatch {
				t.Fatalf("expected ErrPasswordMismatch, got %v", err)
			}
		})
	}
}
