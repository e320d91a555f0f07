package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	id := Identity{
		UserID:       "64f0c2a1b3d4e5f678901234",
		Name:         "Rahim Uddin",
		Username:     "rahim@example.com",
		ProfileImage: "https://cdn.example.com/p/rahim.png",
	}

	signed, err := svc.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, id.UserID, claims.UserID)
	require.Equal(t, id.Name, claims.Name)
	require.Equal(t, id.Username, claims.Username)
	require.Equal(t, id.ProfileImage, claims.ProfileImage)
}

func TestVerifyExpired(t *testing.T) {
	// NewService clamps non-positive TTLs to the default, so build the service
	// directly to issue an already-expired token.
	svc := &Service{secret: []byte("test-secret"), ttl: -time.Minute}

	signed, err := svc.Issue(Identity{UserID: "u1", Username: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	signed, err := issuer.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := svc.Verify(raw)
		require.ErrorIs(t, err, ErrInvalid, "input %q", raw)
	}
}

func TestDefaultTTL(t *testing.T) {
	svc := NewService("test-secret", 0)

	signed, err := svc.Issue(Identity{UserID: "u1"})
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, remaining, 23*time.Hour)
	require.LessOrEqual(t, remaining, 24*time.Hour)
}
