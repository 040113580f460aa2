package domain

import "unicode"

// Password policy limits.
const (
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// Password policy violation messages.
const (
	PasswordTooShortMessage    = "Passwords must be at least 8 characters."
	PasswordTooLongMessage     = "Passwords must be at most 72 bytes."
	PasswordNeedsDigitMessage  = "Passwords must have at least one digit ('0'-'9')."
	PasswordNeedsLowerMessage  = "Passwords must have at least one lowercase ('a'-'z')."
	PasswordNeedsUpperMessage  = "Passwords must have at least one uppercase ('A'-'Z')."
	PasswordNeedsSymbolMessage = "Passwords must have at least one non alphanumeric character."
)

// CheckPasswordPolicy validates a plaintext password against the account
// password policy. It returns nil, or a *PasswordPolicyError carrying one
// reason per violated rule.
func CheckPasswordPolicy(password string) error {
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			hasSymbol = true
		}
	}

	var reasons []string
	if len([]rune(password)) < MinPasswordLength {
		reasons = append(reasons, PasswordTooShortMessage)
	}
	if len(password) > MaxPasswordBytes {
		reasons = append(reasons, PasswordTooLongMessage)
	}
	if !hasSymbol {
		reasons = append(reasons, PasswordNeedsSymbolMessage)
	}
	if !hasDigit {
		reasons = append(reasons, PasswordNeedsDigitMessage)
	}
	if !hasLower {
		reasons = append(reasons, PasswordNeedsLowerMessage)
	}
	if !hasUpper {
		reasons = append(reasons, PasswordNeedsUpperMessage)
	}

	if len(reasons) == 0 {
		return nil
	}
	return &PasswordPolicyError{Reasons: reasons}
}
