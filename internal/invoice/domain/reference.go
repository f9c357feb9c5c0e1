package domain

import (
	"errors"
	"strconv"
)

var ErrInvalidReferenceBase = errors.New("invalid_reference_base")

// ReferenceNumber computes the Finnish domestic payment reference for a
// base number: weights 7, 3, 1 cycle over the digits from the least
// significant one, and the check digit is (10 - sum mod 10) mod 10.
//
// Base 104: digits 4,0,1 weighted 7,3,1 sum to 29, check digit 1, so the
// reference is "1041".
func ReferenceNumber(base int64) (string, error) {
	if base <= 0 {
		return "", ErrInvalidReferenceBase
	}

	digits := strconv.FormatInt(base, 10)
	weights := []int{7, 3, 1}

	sum := 0
	for i := 0; i < len(digits); i++ {
		digit := int(digits[len(digits)-1-i] - '0')
		sum += digit * weights[i%3]
	}

	check := (10 - sum%10) % 10
	return digits + strconv.Itoa(check), nil
}

// ValidReference reports whether a reference string satisfies the
// weighted mod-10 check.
func ValidReference(reference string) bool {
	if len(reference) < 2 {
		return false
	}
	base, err := strconv.ParseInt(reference[:len(reference)-1], 10, 64)
	if err != nil {
		return false
	}
	expected, err := ReferenceNumber(base)
	if err != nil {
		return false
	}
	return expected == reference
}
