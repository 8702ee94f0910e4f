package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2" {
		t.Error("hash equals plaintext")
	}
	if !CheckPasswordHash("hunter2", hash) {
		t.Error("CheckPasswordHash() = false for correct password")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("CheckPasswordHash() = true for wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken(42)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.WorkerID != 42 {
		t.Errorf("WorkerID = %d, want 42", claims.WorkerID)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Error("VerifyToken() expected error for garbage input")
	}
}

func TestVerifyToken_WrongSigningMethod(t *testing.T) {
	claims := &Claims{
		WorkerID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}

	// Signed with the right secret but the wrong algorithm.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := VerifyToken(token); err == nil {
		t.Error("VerifyToken() accepted a token signed with a different algorithm")
	}
}
