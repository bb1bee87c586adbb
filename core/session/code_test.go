package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r),
				"code %q uses symbol outside the alphabet", code)
		}
		seen[code] = true
	}
	// Not a uniqueness guarantee, but 100 draws from 32^6 should not collide.
	assert.Greater(t, len(seen), 95)
}

func TestAlphabetExcludesAmbiguousSymbols(t *testing.T) {
	for _, banned := range "IO01" {
		assert.NotContains(t, CodeAlphabet, string(banned))
	}
	assert.Len(t, CodeAlphabet, 32)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC234", NormalizeCode("  abc234 "))
	assert.Equal(t, "ABC234", NormalizeCode("ABC234"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"ABC234", true},
		{"ZZZZZZ", true},
		{"ABC23", false},  // too short
		{"ABC2345", false}, // too long
		{"ABC10X", false},  // ambiguous symbols
		{"abc234", false},  // not normalized
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidCode(tt.code), "code %q", tt.code)
	}
}
