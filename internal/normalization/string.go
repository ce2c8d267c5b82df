package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := ParseInputString(*input)
	return &normalized
}

// TrimPtr trims surrounding whitespace, keeping nil as nil.
func TrimPtr(input *string) *string {
	if input == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*input)
	return &trimmed
}

// EmailDomain returns the lower-cased part after the last '@', or "".
func EmailDomain(email string) string {
	email = ParseInputString(email)
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return email[i+1:]
}
