package utils

import (
	"fmt"
	"time"
)

// Reference prefixes for the opaque identifiers handed to users and the gateway.
const (
	OrderReferencePrefix   = "ORD"
	CartReferencePrefix    = "CART"
	PaymentReferencePrefix = "KUDI"
)

const referenceTimeLayout = "20060102150405"

// GenerateReference builds "<PREFIX>-<yyyyMMddHHmmss>-<4 digits>" for now.
func GenerateReference(prefix string, now time.Time) string {
	suffix, err := SecureRandomIntRange(1000, 9999)
	if err != nil {
		// crypto/rand failing is not recoverable; fall back to the clock's sub-second digits.
		suffix = 1000 + int64(now.Nanosecond()/1000)%9000
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format(referenceTimeLayout), suffix)
}

// ReferenceGenerator produces references for a fixed prefix.
type ReferenceGenerator func(now time.Time) string

// NewReferenceGenerator returns a ReferenceGenerator bound to prefix.
func NewReferenceGenerator(prefix string) ReferenceGenerator {
	return func(now time.Time) string { return GenerateReference(prefix, now) }
}
