package cache

import "strings"

// ReservedKeyChars lists the characters a key may not contain.
const ReservedKeyChars = `{}()/\@:`

// ValidateKey returns an *InvalidKeyError if key is empty or contains a
// reserved character.
func ValidateKey(key string) error {
	if key == "" {
		return &InvalidKeyError{Reason: "key must not be empty"}
	}
	if strings.ContainsAny(key, ReservedKeyChars) {
		return &InvalidKeyError{Key: key, Reason: "contains one or more invalid characters: " + ReservedKeyChars}
	}
	return nil
}
