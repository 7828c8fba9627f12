package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsValid(t *testing.T) {
	assert.True(t, Valid(New()))
}

func TestNew_Unique(t *testing.T) {
	assert.NotEqual(t, New(), New())
}

func TestValid_RejectsGarbage(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-an-id"))
	assert.False(t, Valid("123e4567-e89b-12d3-a456-426614174000"))
}
