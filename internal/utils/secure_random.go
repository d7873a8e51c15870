package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SecureRandomIntRange returns a uniformly random integer in [min, max].
func SecureRandomIntRange(min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("max (%d) must not be less than min (%d)", max, min)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return min + n.Int64(), nil
}
