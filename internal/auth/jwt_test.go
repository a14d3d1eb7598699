package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	s := NewJWTService("test-secret")

	token, err := s.GenerateToken(42, "meow", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "meow" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(1, "u", "viewer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Error("token signed with another secret should fail validation")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := NewJWTService("s").ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should fail validation")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
