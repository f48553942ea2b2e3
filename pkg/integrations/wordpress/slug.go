package wordpress

import (
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// stopWords are dropped from slugs, in this order.
var stopWords = []string{"to", "the", "a", "are", "is", "and", "of", "in", "at"}

type stopWordPattern struct {
	inside *regexp.Regexp // surrounded by whitespace, collapses to one space
	start  *regexp.Regexp // first word
	end    *regexp.Regexp // last word
}

// space matches any Unicode whitespace. RE2's \s is ASCII-only, so NBSP
// and U+3000 would otherwise keep stop words in place.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	contractionRE = regexp.MustCompile(`([\p{L}\p{N}_]+)'([\p{L}\p{N}_]+)`)
	nonWordRE     = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	underscoresRE = regexp.MustCompile(`_+`)
	wordRE        = regexp.MustCompile(`[\p{L}\p{N}_]`)

	stopWordPatterns = compileStopWords(stopWords)
)

func compileStopWords(words []string) []stopWordPattern {
	patterns := make([]stopWordPattern, 0, len(words))
	for _, w := range words {
		q := regexp.QuoteMeta(w)
		patterns = append(patterns, stopWordPattern{
			inside: regexp.MustCompile(`(?i)` + space + `+` + q + space + `+`),
			start:  regexp.MustCompile(`(?i)^` + q + space + `+`),
			end:    regexp.MustCompile(`(?i)` + space + `+` + q + `$`),
		})
	}
	return patterns
}

// GenerateSlug derives a URL slug from an English title.
//
// The title is lower-cased, apostrophes inside contractions are removed
// ("don't" becomes "dont"), and the stop words to, the, a, are, is, and,
// of, in, at are dropped wherever they stand alone. Every remaining rune
// that is not a letter, digit, or underscore becomes an underscore; runs of
// underscores collapse to one and leading or trailing underscores are
// trimmed.
//
// Each stop word is removed in a single left-to-right pass over the string
// left by the previous word, so adjacent repeats of the same word may
// survive ("to to" keeps one "to").
//
// The result may be empty for titles made only of stop words or
// punctuation; see [IsValidSlug].
func GenerateSlug(title string) string {
	if title == "" {
		return ""
	}

	slug := strings.ToLower(title)
	slug = contractionRE.ReplaceAllString(slug, "${1}${2}")

	for _, p := range stopWordPatterns {
		slug = p.inside.ReplaceAllString(slug, " ")
		slug = p.start.ReplaceAllString(slug, "")
		slug = p.end.ReplaceAllString(slug, "")
	}

	slug = nonWordRE.ReplaceAllString(slug, "_")
	slug = underscoresRE.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// IsValidSlug reports whether slug contains at least one letter, digit, or
// underscore.
func IsValidSlug(slug string) bool {
	return wordRE.MatchString(slug)
}

// GenerateSlugWithLogger is [GenerateSlug] that warns on logger when the
// slug has no word characters. A nil logger discards the warning.
func GenerateSlugWithLogger(logger *log.Logger, title string) string {
	slug := GenerateSlug(title)
	if !IsValidSlug(slug) {
		if logger == nil {
			logger = log.New(io.Discard)
		}
		logger.Warn("slug has no word characters", "title", title, "slug", slug)
	}
	return slug
}
