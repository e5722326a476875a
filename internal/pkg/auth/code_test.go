package auth

import (
	"testing"
)

func TestGenerateLoginCode(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		code, err := GenerateLoginCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != LoginCodeLength {
			t.Fatalf("expected %d digits, got %q", LoginCodeLength, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit character in code %q", code)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Error("codes never varied across 20 generations")
	}
}

func TestHashAndCheckLoginCode(t *testing.T) {
	code, err := GenerateLoginCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash, err := HashLoginCode(code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == code {
		t.Fatal("hash must differ from the plain code")
	}

	if !CheckLoginCode(hash, code) {
		t.Error("correct code rejected")
	}
	if CheckLoginCode(hash, "999999") {
		t.Error("wrong code accepted")
	}
	if CheckLoginCode("not-a-bcrypt-hash", code) {
		t.Error("malformed hash accepted")
	}
}
