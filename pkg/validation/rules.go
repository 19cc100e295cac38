package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Minimum lengths count Unicode code points, not UTF-16 units, so "😀" is
// one character and fails the name rule.
const (
	DefaultNameMinLength    = 2
	DefaultMessageMinLength = 10
)

// emailPattern is a structural check only: something, @, something, a dot,
// something, with no whitespace anywhere and no second @ in the local or
// domain parts. Whitespace covers \v and U+FEFF as well as \s and \p{Z}.
var emailPattern = regexp.MustCompile(`^[^\s\v\x{FEFF}\p{Z}@]+@[^\s\v\x{FEFF}\p{Z}@]+\.[^\s\v\x{FEFF}\p{Z}@]+$`)

const msgInvalidEmail = "Please enter a valid email address."

type messageSet struct {
	required map[FieldID]string
}

// formMessages are surfaced in the submit notification.
var formMessages = messageSet{
	required: map[FieldID]string{
		FieldName:    "Please enter your name.",
		FieldEmail:   "Please enter your email address.",
		FieldMessage: "Please enter your message.",
	},
}

// fieldMessages are attached inline on blur.
var fieldMessages = messageSet{
	required: map[FieldID]string{
		FieldName:    "Name is required.",
		FieldEmail:   "Email is required.",
		FieldMessage: "Message is required.",
	},
}

func tooShort(id FieldID, minLen int) string {
	return fmt.Sprintf("%s must be at least %d characters long.", label(id), minLen)
}

func label(id FieldID) string {
	s := string(id)
	if s == "" {
		return "Value"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
