package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessCode_Shape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		assert.Len(t, code, AccessCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q in code %q", r, code)
		}
	}
}

func TestGenerateAccessCode_AvoidsConfusableCharacters(t *testing.T) {
	for _, r := range "01IOlio" {
		assert.False(t, strings.ContainsRune(codeAlphabet, r), "alphabet must not contain %q", r)
	}
}

func TestGenerateAccessCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not all collide")
}
