// Package cardfmt formats card fields for entry and display and builds sample
// card numbers for demos.
package cardfmt

import (
	"crypto/rand"
	"fmt"
	"strings"
	"unicode"
)

const (
	groupSize   = 4
	numberLen   = 16
	emptyNumber = "---- ---- ---- ----"
	holderMax   = 20
)

// NormalizeNumber strips spaces, tabs and dashes from a card number.
func NormalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}

// FormatNumber regroups a card number into blocks of four separated by single
// spaces, the form the API stores.
func FormatNumber(s string) string {
	return group(NormalizeNumber(s))
}

// FormatExpiry turns free-form input such as "1227" or "12-27" into "12/27".
// Input with fewer than two digits is returned as its digits.
func FormatExpiry(s string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) < 2 {
		return digits
	}
	rest := digits[2:]
	if len(rest) > 2 {
		rest = rest[:2]
	}
	return digits[:2] + "/" + rest
}

// Mask hides the middle of a 16-digit number keeping the first 2 and last 4
// digits. Anything else is returned as is.
func Mask(number string) string {
	cleaned := NormalizeNumber(number)
	if len(cleaned) != numberLen {
		if number == "" {
			return emptyNumber
		}
		return number
	}
	return group(cleaned[:2] + strings.Repeat("*", 10) + cleaned[12:])
}

// NormalizeHolder upper-cases a name, collapses inner whitespace and cuts it to
// the longest name the API accepts.
func NormalizeHolder(name string) string {
	up := strings.ToUpper(strings.Join(strings.Fields(name), " "))
	if len(up) > holderMax {
		up = strings.TrimRightFunc(up[:holderMax], unicode.IsSpace)
	}
	return up
}

func group(s string) string {
	if len(s) <= groupSize {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i += groupSize {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := i + groupSize
		if end > len(s) {
			end = len(s)
		}
		sb.WriteString(s[i:end])
	}
	return sb.String()
}

// GenerateNumber returns a random 16-digit Luhn-valid number starting with bin,
// grouped for display.
func GenerateNumber(bin string) (string, error) {
	if err := ValidateBIN(bin); err != nil {
		return "", err
	}
	digits, err := RandomDigits(numberLen - 1 - len(bin))
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body := bin + digits
	return group(body + luhnCheckDigit(body)), nil
}

// RandomDigits returns count uniformly distributed decimal digits.
func RandomDigits(count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	// only bytes below 250 are used so every digit is equally likely
	const threshold = 250
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 64)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if b := buf[i]; b < threshold {
				sb.WriteByte('0' + (b % 10))
			}
		}
	}
	return sb.String(), nil
}

func luhnCheckDigit(body string) string {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	cd := (10 - (sum % 10)) % 10
	return string('0' + byte(cd))
}

// LuhnValid reports whether a card number (spaces allowed) passes the Luhn check.
func LuhnValid(number string) bool {
	n := NormalizeNumber(number)
	if len(n) < 2 || !IsDigits(n) {
		return false
	}
	return luhnCheckDigit(n[:len(n)-1]) == n[len(n)-1:]
}

func ValidateBIN(bin string) error {
	if bin == "" {
		return fmt.Errorf("bin is required")
	}
	if !IsDigits(bin) {
		return fmt.Errorf("bin must contain digits only")
	}
	switch len(bin) {
	case 6, 8, 9:
		return nil
	default:
		return fmt.Errorf("bin must be 6, 8, or 9 digits")
	}
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
