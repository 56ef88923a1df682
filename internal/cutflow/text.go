package cutflow

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
)

// The cleaners below are small pure steps; callers compose them per fragment type.

// StripNonAlnum drops everything except ASCII letters and digits.
// Compatibility forms (full-width digits, ligatures) are folded first so they survive as ASCII.
func StripNonAlnum(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// SplitDigitRuns splits s into alternating digit and non-digit runs, dropping empty pieces.
// "TotEff2" -> ["TotEff", "2"].
func SplitDigitRuns(s string) []string {
	var out []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i
		}
	}
	return out
}

// LeadingWord returns the text before the first digit run ("" when s starts with a digit).
func LeadingWord(s string) string {
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return s[:i]
		}
	}
	return s
}

// CutAtToken returns the text before the first occurrence of tok.
func CutAtToken(s, tok string) string {
	before, _, _ := strings.Cut(s, tok)
	return before
}

// TrimFormatting trims whitespace and the backslashes of row-closing markup (\\, a dangling \).
func TrimFormatting(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '\\' || unicode.IsSpace(r)
	})
}

// CleanNumeric prepares a numeric cell: drops the trailing \hline and the markup around the number.
func CleanNumeric(s string) string {
	return TrimFormatting(CutAtToken(s, constants.RuleToken))
}

// HeaderTokens turns one header fragment into column-name tokens.
func HeaderTokens(fragment string) []string {
	return SplitDigitRuns(StripNonAlnum(CutAtToken(fragment, constants.RuleToken)))
}

// Label is the cleaned leading word of a fragment, used to recognise row kinds.
func Label(fragment string) string {
	return LeadingWord(StripNonAlnum(fragment))
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
