package password

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("S3cure!pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "S3cure!pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := Compare(hash, "S3cure!pass"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := Compare(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
