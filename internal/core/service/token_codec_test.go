package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidtube/vidtube-api/internal/core/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec()

	access, err := codec.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}
	sub, err := codec.Verify(access, TokenAccess)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sub != "u1" {
		t.Fatalf("expected subject u1, got %q", sub)
	}

	refresh, err := codec.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("IssueRefreshToken returned error: %v", err)
	}
	if _, err := codec.Verify(refresh, TokenRefresh); err != nil {
		t.Fatalf("Verify refresh returned error: %v", err)
	}
}

func TestTokenCodec_ClaimsCarryKindAndID(t *testing.T) {
	codec := newTestCodec()
	for kind, issue := range map[TokenKind]func(string) (string, error){
		TokenAccess:  codec.IssueAccessToken,
		TokenRefresh: codec.IssueRefreshToken,
	} {
		token, err := issue("u1")
		if err != nil {
			t.Fatalf("issue %s: %v", kind, err)
		}
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			t.Fatalf("decode %s token: %v", kind, err)
		}
		if claims["typ"] != string(kind) || claims["sub"] != "u1" || claims["jti"] == nil {
			t.Fatalf("unexpected %s claims: %v", kind, claims)
		}
	}
}

func TestTokenCodec_TokensAreUnique(t *testing.T) {
	codec := newTestCodec()
	a, _ := codec.IssueRefreshToken("u1")
	b, _ := codec.IssueRefreshToken("u1")
	if a == b {
		t.Fatalf("two refresh tokens issued in the same second must differ")
	}
}

func TestTokenCodec_KindsAreNotInterchangeable(t *testing.T) {
	codec := newTestCodec()
	access, _ := codec.IssueAccessToken("u1")
	refresh, _ := codec.IssueRefreshToken("u1")

	if _, err := codec.Verify(access, TokenRefresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := codec.Verify(refresh, TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestTokenCodec_SameSecretStillChecksKind(t *testing.T) {
	codec := NewTokenCodec("shared", "shared", time.Minute, time.Hour)
	refresh, _ := codec.IssueRefreshToken("u1")
	if _, err := codec.Verify(refresh, TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec().WithClock(func() time.Time { return now })
	token, _ := codec.IssueAccessToken("u1")

	now = now.Add(2 * time.Minute)
	if _, err := codec.Verify(token, TokenAccess); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_Tampered(t *testing.T) {
	codec := newTestCodec()
	token, _ := codec.IssueAccessToken("u1")

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := codec.Verify(strings.Join(parts, "."), TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := codec.Verify("not-a-jwt", TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec()
	claims := tokenClaims{
		Type: TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := codec.Verify(token, TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestTokenCodec_RequiresExpiry(t *testing.T) {
	codec := newTestCodec()
	claims := tokenClaims{Type: TokenAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if _, err := codec.Verify(token, TokenAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
}
