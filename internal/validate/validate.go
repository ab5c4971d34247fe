// Package validate holds the form rules shared by the TUI and the CLI.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	emailMaxLen       = 254
	passwordMinLen    = 8
	passwordMaxLen    = 128
	siteNameMaxLen    = 100
	sanitizeMaxRunes  = 1000
	strongPasswordLen = 12
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	siteURLPattern = regexp.MustCompile(`^https?://.+`)
	specialChars   = `!@#$%^&*(),.?":{}|<>`
)

// Strength grades a password for the signup strength meter.
type Strength string

const (
	StrengthNone   Strength = "none"
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Email is required"),
		validation.RuneLength(0, emailMaxLen).Error("Email is too long"),
		validation.Match(emailPattern).Error("Please enter a valid email address"),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Password is required"),
		validation.RuneLength(passwordMinLen, 0).Error("Password must be at least 8 characters"),
		validation.RuneLength(0, passwordMaxLen).Error("Password is too long"),
		validation.By(passwordClasses),
	}
}

func siteNameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Site name is required"),
		validation.RuneLength(1, siteNameMaxLen).Error("Site name is too long"),
	}
}

func siteURLRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Website URL is required"),
		validation.Match(siteURLPattern).Error("Please enter a valid URL (starting with http:// or https://)"),
		is.URL.Error("Please enter a valid URL"),
	}
}

// Email validates an email address.
func Email(email string) error {
	return validation.Validate(email, emailRules()...)
}

// Password validates a password against the length and character-class rules.
func Password(password string) error {
	return validation.Validate(password, passwordRules()...)
}

// PasswordConfirmation checks that confirm is present and equals password.
func PasswordConfirmation(password, confirm string) error {
	if confirm == "" {
		return errors.New("Please confirm your password")
	}
	if password != confirm {
		return errors.New("Passwords do not match")
	}
	return nil
}

// SiteName validates a site display name. Surrounding whitespace is ignored.
func SiteName(name string) error {
	return validation.Validate(strings.TrimSpace(name), siteNameRules()...)
}

// SiteURL validates a site URL; only http and https are accepted.
func SiteURL(u string) error {
	return validation.Validate(strings.TrimSpace(u), siteURLRules()...)
}

func passwordClasses(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	lower, upper, digit, _ := charClasses(s)
	if !lower || !upper || !digit {
		return errors.New("Password must contain at least one lowercase letter, one uppercase letter, and one number")
	}
	return nil
}

// charClasses only counts ASCII letters and digits; accented letters and
// non-Latin numerals satisfy none of the classes.
func charClasses(s string) (lower, upper, digit, special bool) {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	return lower, upper, digit, special
}

// PasswordStrength scores one point each for lowercase, uppercase, digit,
// special character and a length of at least 12.
func PasswordStrength(password string) Strength {
	if password == "" {
		return StrengthNone
	}
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen || n > passwordMaxLen {
		return StrengthWeak
	}
	lower, upper, digit, special := charClasses(password)
	score := 0
	for _, ok := range []bool{lower, upper, digit, special, n >= strongPasswordLen} {
		if ok {
			score++
		}
	}
	switch {
	case score >= 4:
		return StrengthStrong
	case score >= 2:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// Sanitize trims input, strips angle brackets and caps it at 1000 runes.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if utf8.RuneCountInString(s) > sanitizeMaxRunes {
		s = string([]rune(s)[:sanitizeMaxRunes])
	}
	return s
}
