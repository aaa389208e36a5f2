// Package textkit holds the deterministic text primitives shared by the
// segmenter, ranker and reconciler: tokenization, keyword extraction,
// normalized-key deduplication and evidence matching.
package textkit

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	tokenRe      = regexp.MustCompile(`[a-z0-9+#.-]{2,}`)
	nonTermRe    = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
	listSplitRe  = regexp.MustCompile(`[,\n;]`)
	controlRe    = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	bulletRe     = regexp.MustCompile(`[\x{2022}\x{25CF}\x{25AA}\x{25E6}]`)
	lineSpaceRe  = regexp.MustCompile(`[ \t\f\v]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Bilingual (pt/en) stopword set used for keyword extraction.
var stopwords = map[string]struct{}{
	"a": {}, "o": {}, "e": {}, "de": {}, "da": {}, "do": {}, "das": {},
	"dos": {}, "em": {}, "para": {}, "com": {}, "por": {}, "no": {},
	"na": {}, "nos": {}, "nas": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "of": {}, "or": {}, "as": {}, "is": {}, "are": {},
}

// Tokenize extracts runs of [a-z0-9+#.-] of length >= 2 from the
// lowercased text.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Keywords returns the token set of text minus stopwords.
func Keywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		if _, stop := stopwords[token]; stop {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}

// NormalizeKey reduces a term to its comparison key: lowercase with every
// non-alphanumeric rune stripped. Two strings are "the same" when their
// keys match.
func NormalizeKey(s string) string {
	return nonTermRe.ReplaceAllString(strings.ToLower(s), "")
}

// NormalizeSpace collapses whitespace runs to single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// SplitList splits a free-form enumeration on commas, semicolons and
// newlines, dropping empty parts.
func SplitList(s string) []string {
	var items []string
	for _, part := range listSplitRe.Split(s, -1) {
		if cleaned := NormalizeSpace(part); cleaned != "" {
			items = append(items, cleaned)
		}
	}
	return items
}

// Dedupe removes duplicates by normalized key, keeping the first-seen
// original casing. Entries with an empty key are dropped.
func Dedupe(items []string) []string {
	var result []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := NormalizeKey(item)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, strings.TrimSpace(item))
	}
	return result
}

// TermInText reports whether term occurs as a whole word in text,
// case-insensitively. Used to verify generated claims against evidence.
func TermInText(term, text string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	pattern := `\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToLower(text))
}

// Num formats an integer for prompt payloads and change-log lines.
func Num(n int) string {
	return strconv.Itoa(n)
}

// CleanText normalizes raw extracted text before segmentation: NFKC
// normalization, control characters to spaces, bullet glyphs to hyphens,
// intra-line space runs collapsed, blank-line runs capped at one.
func CleanText(text string) string {
	normalized := norm.NFKC.String(text)
	normalized = controlRe.ReplaceAllString(normalized, " ")
	normalized = bulletRe.ReplaceAllString(normalized, "-")
	normalized = lineSpaceRe.ReplaceAllString(normalized, " ")
	normalized = blankRunRe.ReplaceAllString(normalized, "\n\n")
	return strings.TrimSpace(normalized)
}
