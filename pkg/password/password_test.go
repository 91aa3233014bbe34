package password

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Super-secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !CheckPasswordHash("Super-secret1", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected mismatch")
	}
}
