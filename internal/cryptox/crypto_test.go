package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.True(t, bytes.Equal(key1, key2))
	require.Len(t, key1, 32)

	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	require.Equal(t, expectedHex, hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	require.NotEqual(t, DeriveKey(password, []byte("salt-1")), DeriveKey(password, []byte("salt-2")))
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(DeriveKey([]byte("pw"), []byte("0123456789abcdef")))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("eyJhbGciOi.token"))
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "eyJhbGciOi.token", string(plain))
}

func TestSealer_FreshNoncePerSeal(t *testing.T) {
	s, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)

	a, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSealer_OpenWithWrongKey(t *testing.T) {
	salt := []byte("0123456789abcdef")
	s1, err := NewSealer(DeriveKey([]byte("right"), salt))
	require.NoError(t, err)
	s2, err := NewSealer(DeriveKey([]byte("wrong"), salt))
	require.NoError(t, err)

	sealed, err := s1.Seal([]byte("token"))
	require.NoError(t, err)

	_, err = s2.Open(sealed)
	require.ErrorIs(t, err, ErrOpen)
}

func TestSealer_OpenTruncated(t *testing.T) {
	s, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)

	_, err = s.Open([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrOpen)
}

func TestNewSealer_BadKeyLength(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	require.Error(t, err)
}
