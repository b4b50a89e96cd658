package normalizers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/tulsi/pkg/normalizers"
)

func TestApplyChain(t *testing.T) {
	result := normalizers.ApplyChain("  Thiru Vathira  ", "trim", "lowercase", "remove_whitespace")
	assert.Equal(t, "thiruvathira", result)
}

func TestApplyUnknownNormalizerIsNoop(t *testing.T) {
	assert.Equal(t, "value", normalizers.Apply("value", "does-not-exist"))
}

func TestRegister(t *testing.T) {
	normalizers.Register("reverse-test", func(s string) string {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes)
	})

	fn, ok := normalizers.Get("reverse-test")
	assert.True(t, ok)
	assert.Equal(t, "cba", fn("abc"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "919812345678", normalizers.DigitsOnly("+91 98123-45678"))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, normalizers.IsDigits("9812345678"))
	assert.False(t, normalizers.IsDigits(""))
	assert.False(t, normalizers.IsDigits("98AB123"))
	assert.False(t, normalizers.IsDigits("98 12"))
}
