package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateActivationCode(t *testing.T) {
	format := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateActivationCode()
		require.NoError(t, err)
		assert.Regexp(t, format, code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 200)
}

func TestMaskCode(t *testing.T) {
	assert.Equal(t, "SPO***", MaskCode("SPORTPRO123"))
	assert.Equal(t, "***", MaskCode("ABC"))
	assert.Equal(t, "***", MaskCode(""))
}
