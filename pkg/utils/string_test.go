package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	assert.Len(t, s, 6)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(charset, c))
	}

	// arka arkaya çağrılar pratikte farklı değer üretmeli
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateRandomString(6)] = true
	}
	assert.Greater(t, len(seen), 45)
}
