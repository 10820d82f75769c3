package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"attendcli/pkg/contracts/domain"
)

// UnresolvableIdentityError is a row-level failure: the raw identifier is
// empty or carries no name at all. The affected row is skipped and counted,
// never fatal for the file.
type UnresolvableIdentityError struct {
	Raw string
}

func (e *UnresolvableIdentityError) Error() string {
	return fmt.Sprintf("unresolvable driver identifier %q", e.Raw)
}

// The two compound spellings the upstream exports produce:
// "Shaylor, Matthew C (210013)" and "210013 - Shaylor, Matthew C".
var (
	parenSuffixRe  = regexp.MustCompile(`^(.*?)\s*\((\d+)\)$`)
	leadingTokenRe = regexp.MustCompile(`^(\d+)\s+-\s+(.+)$`)
)

// ResolveIdentity parses a raw driver identifier into a canonical
// DriverKey. Strategies are tried in a fixed order, first match wins:
//
//  1. parenthesized numeric suffix: "Name (12345)"
//  2. leading numeric token with " - " delimiter: "12345 - Name"
//  3. the whole string is a display name with no employee ID
//
// Resolution is idempotent: both compound spellings of the same (ID, name)
// pair produce the same key.
func ResolveIdentity(raw string) (domain.DriverKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !containsAlphabetic(trimmed) {
		return domain.DriverKey{}, &UnresolvableIdentityError{Raw: raw}
	}

	if m := parenSuffixRe.FindStringSubmatch(trimmed); m != nil {
		name := domain.NormalizeName(m[1])
		if name != "" && containsAlphabetic(name) {
			return domain.DriverKey{EmployeeID: m[2], DisplayName: name}, nil
		}
	}

	if m := leadingTokenRe.FindStringSubmatch(trimmed); m != nil {
		name := domain.NormalizeName(m[2])
		if name != "" && containsAlphabetic(name) {
			return domain.DriverKey{EmployeeID: m[1], DisplayName: name}, nil
		}
	}

	return domain.DriverKey{DisplayName: domain.NormalizeName(trimmed)}, nil
}

func containsAlphabetic(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
