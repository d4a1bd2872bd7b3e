package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	decomposed := "Jose\u0301"
	composed := "Jos\u00e9"

	assert.Equal(t, composed, NormalizeName(decomposed))
	assert.Equal(t, composed, NormalizeName(composed))
	assert.Equal(t, "plain", NormalizeName("plain"))
}
