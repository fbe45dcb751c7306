package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domuser "example.com/storefront/app/internal/domain/user"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(&domuser.User{ID: 7, Name: "Ann", Email: "ann@example.com", RoleCode: domuser.RoleCodeCustomer})
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, domuser.RoleCodeCustomer, claims.RoleCode)
}

func TestJWT_Rejects(t *testing.T) {
	issuer := NewJWTService("secret", time.Hour)
	token, err := issuer.GenerateToken(&domuser.User{ID: 7, RoleCode: domuser.RoleCodeAdmin})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("other", time.Hour).ParseToken(token)
		require.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTService("secret", -time.Minute).GenerateToken(&domuser.User{ID: 7, RoleCode: domuser.RoleCodeAdmin})
		require.NoError(t, err)
		_, err = issuer.ParseToken(expired)
		require.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-token")
		require.Error(t, err)
	})
}

func TestBcrypt_HashAndCompare(t *testing.T) {
	svc := NewBcryptService(4)

	hash, err := svc.Hash("password123")
	require.NoError(t, err)
	require.NoError(t, svc.Compare(hash, "password123"))
	require.Error(t, svc.Compare(hash, "wrong"))
}
