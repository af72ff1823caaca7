package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"tacklepos/internal/domain"
)

var (
	reID  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSKU = regexp.MustCompile(`^[A-Za-z0-9._/-]{1,40}$`)
)

const (
	maxName        = 120
	maxQuery       = maxName
	maxDescription = 1000
)

// Q validates a free-text search term. Any printable text is allowed so a
// product can always be found by its own name; over-long terms are refused,
// not cut.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > maxQuery {
		return "", false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return s, true
}

// ID validates a simple resource identifier (product ids, session ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable product name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxName {
		return "", false
	}
	return s, true
}

// SKU validates a stock keeping code. Empty is allowed; the catalog fills one in.
func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reSKU.MatchString(s)
}

func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= maxDescription
}

// Category accepts either the code (REEL) or the display label (Reel).
func Category(s string) (domain.Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range domain.Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, true
		}
	}
	return "", false
}

func Unit(s string) (domain.Unit, bool) {
	s = strings.TrimSpace(s)
	for _, u := range domain.Units() {
		if strings.EqualFold(s, string(u)) || strings.EqualFold(s, u.Label()) {
			return u, true
		}
	}
	return "", false
}

// Money rejects negative amounts.
func Money(n int64) bool { return n >= 0 }
