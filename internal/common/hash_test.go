package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	first := ContentHash("회의 자료 정리")
	second := ContentHash("회의 자료 정리")
	other := ContentHash("회의 자료 정리 ")

	assert.Len(t, first, 64)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestContentHash_Empty(t *testing.T) {
	assert.Len(t, ContentHash(""), 64)
}
