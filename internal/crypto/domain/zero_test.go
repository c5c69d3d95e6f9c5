package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	Zero(b)
	assert.Equal(t, []byte{0x00, 0x00, 0x00}, b)
}

func TestZero_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		Zero(nil)
	})
}

func TestZero_Empty(t *testing.T) {
	b := []byte{}
	Zero(b)
	assert.Empty(t, b)
}
