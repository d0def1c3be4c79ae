package num

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(99, 0, 10))
	assert.Equal(t, 0.4, Clamp(0.25, 0.4, 2.5))
}

func TestUnitAndSigned(t *testing.T) {
	assert.Equal(t, 1.0, Unit(1.7))
	assert.Equal(t, 0.0, Unit(-0.2))
	assert.Equal(t, 0.5, Unit(0.5))

	assert.Equal(t, -1.0, Signed(-3))
	assert.Equal(t, 1.0, Signed(3))
	assert.Equal(t, -0.5, Signed(-0.5))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 30, RoundTo(27, 10))
	assert.Equal(t, 20, RoundTo(24, 10))
	assert.Equal(t, 0, RoundTo(4, 10))
	assert.Equal(t, -30, RoundTo(-27, 10))
	assert.Equal(t, 7, RoundTo(7, 0))
}
