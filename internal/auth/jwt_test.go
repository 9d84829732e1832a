package auth_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "a-long-and-safe-secret-key-for-tests"
const testUserID = "6f1c2b34-9f0a-4a94-bb1e-1c6a2d9fd111"
const testEmail = "jane@example.com"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		os.Unsetenv("JWT_SECRET")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init() should have panicked when JWT_SECRET is empty, but did not.")
			}
		}()

		auth.Init()
	})

	t.Run("ValidSecret", func(t *testing.T) {
		os.Setenv("JWT_SECRET", testSecret)
		auth.Init()
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	t.Run("ValidToken", func(t *testing.T) {
		duration := time.Minute * 5

		tokenStr, err := auth.GenerateJWT(testUserID, testEmail, duration)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}

		if claims.UserID != testUserID {
			t.Errorf("Wrong UserID. Expected: %s, Got: %s", testUserID, claims.UserID)
		}
		if claims.Email != testEmail {
			t.Errorf("Wrong Email. Expected: %s, Got: %s", testEmail, claims.Email)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		duration := -time.Second * 1

		tokenStr, err := auth.GenerateJWT(testUserID, testEmail, duration)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr)

		if err == nil {
			t.Fatal("ValidateJWT should have failed with an expired token, but passed.")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("Wrong error returned for expired token. Expected: %v, Got: %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testEmail, time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		tampered := tokenStr[:len(tokenStr)-2] + "xx"

		_, err = auth.ValidateJWT(tampered)
		if err == nil {
			t.Fatal("ValidateJWT should have failed with an invalid signature, but passed.")
		}
		if !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Wrong error for invalid signature: %v", err)
		}
	})
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()

	if _, err := auth.GetUserClaimsFromContext(ctx); !errors.Is(err, auth.ErrNoClaims) {
		t.Errorf("expected ErrNoClaims on empty context, got %v", err)
	}

	claims := &auth.UserClaims{UserID: testUserID, Email: testEmail}
	ctx = auth.ContextWithClaims(ctx, claims)

	got, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		t.Fatalf("GetUserClaimsFromContext failed: %v", err)
	}
	if got.UserID != testUserID {
		t.Errorf("Wrong UserID from context: %s", got.UserID)
	}
}
