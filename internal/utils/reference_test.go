package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^[A-Z]+-\d{14}-\d{4}$`)

func TestGenerateReference(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

	for _, prefix := range []string{OrderReferencePrefix, CartReferencePrefix, PaymentReferencePrefix} {
		ref := GenerateReference(prefix, now)
		assert.Regexp(t, referencePattern, ref)
		assert.True(t, strings.HasPrefix(ref, prefix+"-20250309140507-"), ref)

		n, err := strconv.Atoi(ref[len(ref)-4:])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestNewReferenceGenerator(t *testing.T) {
	gen := NewReferenceGenerator(CartReferencePrefix)
	ref := gen(time.Now())
	assert.True(t, strings.HasPrefix(ref, "CART-"))
}

func TestSecureRandomIntRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := SecureRandomIntRange(1000, 9999)
		require.NoError(t, err)
		assert.True(t, n >= 1000 && n <= 9999)
	}
	_, err := SecureRandomIntRange(5, 1)
	assert.Error(t, err)
}
