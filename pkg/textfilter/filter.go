// Package textfilter cleans raw narrator output before it reaches the
// journal: markdown fences the model sometimes wraps JSON answers in,
// runaway whitespace, and profanity. The game targets a general
// audience, so narration is always run through the filter.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words replaced in narration, with family-friendly substitutes.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"bastard":      "jerk",
	"bitch":        "jerk",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"motherfucker": "mother-trucker",
}

var (
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\n?|```")
	blankRe = regexp.MustCompile(`\n{3,}`)
)

// NarrativeFilter rewrites objectionable words while preserving the
// original casing.
type NarrativeFilter struct {
	regexes map[string]*regexp.Regexp
}

func NewNarrativeFilter() *NarrativeFilter {
	f := &NarrativeFilter{
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
	}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean strips markdown fences, collapses runs of blank lines and
// replaces profanity. Order matters: fence markers can split words, so
// they go first.
func (f *NarrativeFilter) Clean(text string) string {
	out := fenceRe.ReplaceAllString(text, "")
	out = blankRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	for word, replacement := range replacements {
		out = f.regexes[word].ReplaceAllStringFunc(out, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return out
}

// ContainsProfanity reports whether any filtered word appears in text.
func (f *NarrativeFilter) ContainsProfanity(text string) bool {
	for _, re := range f.regexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: mirror the original character by character.
	result := make([]rune, 0, len(replacement))
	originalRunes := []rune(original)
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}
