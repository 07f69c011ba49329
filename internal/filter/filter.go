// Package filter decides whether a raw extracted token is worth indexing,
// per spec.md §4.2. It is loaded once at startup from configuration sources
// (stopwords, language keywords, an optional regex blacklist) and exposes
// ShouldIndex as the single entry point the visitor calls before emitting
// a record.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Caps bound configuration size; preflight fails loudly if exceeded rather
// than silently truncating (spec.md §4.2, §7).
const (
	MaxWords        = 50000
	MaxLineLength   = 4096
	MaxRegexPatterns = 256
)

// punctuation is the fixed set of code punctuation characters rejected
// outright regardless of stopword/keyword membership.
var punctuation = map[byte]bool{
	'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
	'<': true, '>': true, '=': true, '+': true, '-': true, '*': true,
	'/': true, '%': true, '&': true, '|': true, '^': true, '!': true,
	';': true, ':': true, ',': true, '.': true,
}

// Engine applies the should-index filter described in spec.md §4.2.
type Engine struct {
	stopwords map[string]bool
	keywords  map[string]bool
	blacklist []*regexp.Regexp
}

// New builds an Engine from raw word lists and regex patterns. Callers
// should have already loaded these from configuration files via Load*
// helpers and enforced the Caps above during preflight.
func New(stopwords, keywords []string, blacklistPatterns []string) (*Engine, error) {
	e := &Engine{
		stopwords: toSet(stopwords),
		keywords:  toSet(keywords),
	}
	for _, pat := range blacklistPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("filter: invalid blacklist regex %q: %w", pat, err)
		}
		e.blacklist = append(e.blacklist, re)
	}
	return e, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

var onlyDigits = regexp.MustCompile(`^[0-9]+$`)

// ShouldIndex applies the four-step filter from spec.md §4.2 to a raw
// (not yet lowercased) symbol. It returns false whenever the symbol is not
// worth indexing; ShouldIndexReason also returns the Reason.
func (e *Engine) ShouldIndex(raw string) bool {
	ok, _ := e.ShouldIndexReason(raw)
	return ok
}

// Reason explains why ShouldIndexReason rejected a symbol.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonTooShort
	ReasonOnlyDigits
	ReasonPunctuation
	ReasonStopword
	ReasonKeyword
	ReasonBlacklisted
)

// ShouldIndexReason is ShouldIndex plus the specific reason for rejection.
func (e *Engine) ShouldIndexReason(raw string) (bool, Reason) {
	if len(raw) < 2 {
		return false, ReasonTooShort
	}
	if onlyDigits.MatchString(raw) {
		return false, ReasonOnlyDigits
	}
	if len(raw) == 1 && punctuation[raw[0]] {
		return false, ReasonPunctuation
	}
	allPunct := true
	for i := 0; i < len(raw); i++ {
		if !punctuation[raw[i]] {
			allPunct = false
			break
		}
	}
	if allPunct {
		return false, ReasonPunctuation
	}

	lower := strings.ToLower(raw)
	if e.stopwords[lower] {
		return false, ReasonStopword
	}
	if e.keywords[lower] {
		return false, ReasonKeyword
	}
	for _, re := range e.blacklist {
		if re.MatchString(raw) {
			return false, ReasonBlacklisted
		}
	}
	return true, ReasonOK
}

// wordSanitizeAllowed is the set of non-alphanumeric characters kept when
// sanitizing a word pulled from a comment or string (spec.md §4.2).
const wordSanitizeAllowed = "_./-:@#?&=+^$!~<>[]%"

// SanitizeWord keeps alphanumerics, underscore, and the path-like characters
// listed in spec.md §4.2, dropping everything else. Used by the visitor
// when tokenizing comment/string content.
func SanitizeWord(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case strings.ContainsRune(wordSanitizeAllowed, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCaps enforces the configuration caps declared above, failing
// preflight loudly rather than silently truncating (spec.md §4.2, §7).
func ValidateCaps(words, regexPatterns []string, maxLineLen int) error {
	if len(words) > MaxWords {
		return fmt.Errorf("filter: word list exceeds max of %d entries (got %d)", MaxWords, len(words))
	}
	if len(regexPatterns) > MaxRegexPatterns {
		return fmt.Errorf("filter: regex blacklist exceeds max of %d patterns (got %d)", MaxRegexPatterns, len(regexPatterns))
	}
	if maxLineLen > MaxLineLength {
		return fmt.Errorf("filter: configured line length %d exceeds max of %d", maxLineLen, MaxLineLength)
	}
	return nil
}

// ReasonString renders a Reason for diagnostics.
func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonTooShort:
		return "too short (<2 chars) or empty"
	case ReasonOnlyDigits:
		return "purely numeric"
	case ReasonPunctuation:
		return "code punctuation"
	case ReasonStopword:
		return "stopword"
	case ReasonKeyword:
		return "language keyword"
	case ReasonBlacklisted:
		return "matches regex blacklist"
	default:
		return "reason#" + strconv.Itoa(int(r))
	}
}
