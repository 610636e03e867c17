package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("correct password must verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Error("wrong password must not verify")
	}
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hash, err := HashPassword("pw", cost)
		if err != nil {
			t.Fatalf("cost %d: HashPassword: %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("cost %d: read cost: %v", cost, err)
		}
		if got != bcrypt.DefaultCost {
			t.Errorf("cost %d: hash cost = %d, want default %d", cost, got, bcrypt.DefaultCost)
		}
	}
}
