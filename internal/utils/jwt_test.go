package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "extra whitespace", header: "  Bearer token  ", want: "token"},
		{name: "empty header", header: "", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
		{name: "no scheme", header: "token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	t.Run("future exp is valid", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
		assert.False(t, TokenExpired(token, now))
	})

	t.Run("past exp is expired", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})
		assert.True(t, TokenExpired(token, now))
	})

	t.Run("no exp claim is valid", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "storekeeper"})
		assert.False(t, TokenExpired(token, now))
	})

	// мусор вместо токена считаем просроченной сессией
	t.Run("garbage is expired", func(t *testing.T) {
		assert.True(t, TokenExpired("not-a-jwt", now))
	})
}
