// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWarrantyCode(t *testing.T) {
	pattern := regexp.MustCompile(`^WR-\d{4}-[A-Z2-9]{10}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateWarrantyCode()
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(code), code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateRandomStringAvoidsAmbiguousCharacters(t *testing.T) {
	value, err := GenerateRandomString(200)
	require.NoError(t, err)
	assert.Len(t, value, 200)
	assert.NotRegexp(t, `[IO01]`, value)
}

func TestHashStringIsDeterministic(t *testing.T) {
	assert.Equal(t, HashString("input"), HashString("input"))
	assert.NotEqual(t, HashString("input"), HashString("other"))
	assert.Len(t, HashString("input"), 64)
}
