package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	require.Equal(t, key1, key2)
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(key1))
}

func TestDeriveMasterKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	assert.NotEqual(t, DeriveMasterKey(password, []byte("salt-1")), DeriveMasterKey(password, []byte("salt-2")))
}

func TestVerifierFor(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	v := VerifierFor(password, salt)
	require.Len(t, v, 32)
	assert.Equal(t, MakeVerifier(DeriveMasterKey(password, salt)), v)
}

func TestCheckPassword(t *testing.T) {
	salt := []byte("0123456789abcdef")
	v := VerifierFor([]byte("pw"), salt)

	assert.True(t, CheckPassword([]byte("pw"), salt, v))
	assert.False(t, CheckPassword([]byte("wrong"), salt, v))
	assert.False(t, CheckPassword([]byte("pw"), []byte("other-salt"), v))
}
