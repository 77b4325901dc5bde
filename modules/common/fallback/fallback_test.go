package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "x", SafeString("  x ", "d"))
	assert.Equal(t, "d", SafeString("   ", "d"))
	assert.Equal(t, "d", SafeString(42, "d"))
	assert.Equal(t, "d", SafeString(nil, "d"))
}

func TestSafeOutputSettings(t *testing.T) {
	assert.Equal(t, "3:4", SafeAspectRatio(" 3 : 4 ", "1:1"))
	assert.Equal(t, "1:1", SafeAspectRatio("", "1:1"))
	assert.Equal(t, "4K", SafeResolution("4k", "1K"))
	assert.Equal(t, "1K", SafeResolution(nil, "1K"))
	assert.Equal(t, "female", SafeLower(" Female", "male"))
}
