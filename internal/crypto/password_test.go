package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(bcrypt.MinCost)
}

func TestPasswordHasher_HashVerify(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple", password: "secret1"},
		{name: "unicode", password: "пароль-секрет"},
		{name: "with spaces", password: "  padded secret  "},
		{name: "max length", password: strings.Repeat("z", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := h.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, digest)

			assert.True(t, h.Verify(tt.password, digest))
			assert.False(t, h.Verify(tt.password+"x", digest))
		})
	}
}

func TestPasswordHasher_SaltDiffers(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	_, err := newTestHasher().Hash("")
	assert.Error(t, err)
}

func TestPasswordHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher().cost)
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasherWithCost(100).cost)
}

func TestPasswordHasher_VerifyMalformedDigest(t *testing.T) {
	h := newTestHasher()

	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "not-a-hash"))
	assert.False(t, h.Verify("secret1", "$2a$04$short"))
}

// Переворачиваем младший бит каждого символа соли и хеша.
// Алфавит bcrypt base64 плотный, поэтому бит 0 всегда дает другой символ алфавита.
// Символ 28 (последний символ соли) и последний символ хеша несут неиспользуемые биты и пропускаются.
func TestPasswordHasher_BitFlippedDigestRejected(t *testing.T) {
	h := newTestHasher()

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	require.Len(t, digest, 60)

	positions := make([]int, 0, 51)
	for i := 7; i <= 27; i++ {
		positions = append(positions, i)
	}
	for i := 29; i <= 58; i++ {
		positions = append(positions, i)
	}

	for _, pos := range positions {
		flipped := []byte(digest)
		flipped[pos] ^= 0x01
		if !isBcryptChar(flipped[pos]) {
			continue
		}
		assert.False(t, h.Verify("secret1", string(flipped)), "position %d", pos)
	}
}

func isBcryptChar(c byte) bool {
	return c == '.' || c == '/' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
