// Package text cleans input text before it is handed to the host program.
//
// The host reads everything it is given, so links, reference markers and runs of
// punctuation are removed or collapsed rather than spoken.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Regex patterns for text preprocessing.
const (
	urlRegexPattern       = `https?://\S+`
	emailRegexPattern     = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
	referenceRegexPattern = `\[\d+(?:[,\-]\d+)*\]|[¹²³⁴⁵⁶⁷⁸⁹⁰]+`
	repeatRegexPattern    = `([!?！？。、,.])[!?！？。、,.]*`
)

// Punctuation and formatting constants.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
	fullStop     = "."
	japaneseStop = "。"
)

// Preprocessor provides text preprocessing functionality for the host.
type Preprocessor struct {
	urlPattern       *regexp.Regexp
	emailPattern     *regexp.Regexp
	referencePattern *regexp.Regexp
	repeatPattern    *regexp.Regexp
	quoteReplacer    *strings.Replacer
}

// NewPreprocessor creates a new text preprocessor with compiled patterns and replacers.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		urlPattern:       regexp.MustCompile(urlRegexPattern),
		emailPattern:     regexp.MustCompile(emailRegexPattern),
		referencePattern: regexp.MustCompile(referenceRegexPattern),
		repeatPattern:    regexp.MustCompile(repeatRegexPattern),
		quoteReplacer: strings.NewReplacer(
			emDash, "-",
			enDash, "-",
			figureDash, "-",
			ellipsis, ellipsisChar,
			"“", `"`, "”", `"`,
			"‘", "'", "’", "'",
		),
	}
}

// PreprocessText performs text normalization and cleaning.
func (p *Preprocessor) PreprocessText(text string) string {
	if text == "" {
		return text
	}

	cleaned := p.foldWidth(text)
	cleaned = p.removeLinks(cleaned)
	cleaned = p.removeReferences(cleaned)
	cleaned = p.normalizeWhitespace(cleaned)

	return p.finalCleanup(cleaned)
}

// foldWidth maps full-width ASCII to narrow and half-width kana to wide, so
// ＵＲＬｓ and ｶﾀｶﾅ are matched and read like their canonical forms.
func (p *Preprocessor) foldWidth(text string) string {
	return width.Fold.String(text)
}

// removeLinks drops URLs and email addresses.
func (p *Preprocessor) removeLinks(text string) string {
	text = p.urlPattern.ReplaceAllString(text, "")

	return p.emailPattern.ReplaceAllString(text, "")
}

// removeReferences removes footnote and citation markers.
func (p *Preprocessor) removeReferences(text string) string {
	return p.referencePattern.ReplaceAllString(text, "")
}

// normalizeWhitespace collapses every run of whitespace, including the ideographic
// space, into one ASCII space.
func (p *Preprocessor) normalizeWhitespace(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

func (p *Preprocessor) finalCleanup(text string) string {
	text = p.quoteReplacer.Replace(text)
	text = p.removeExcessivePunctuation(text)

	return p.ensureProperSentenceEndings(text)
}

// removeExcessivePunctuation keeps the first mark of each run of sentence punctuation.
func (p *Preprocessor) removeExcessivePunctuation(text string) string {
	return p.repeatPattern.ReplaceAllString(text, "$1")
}

// ensureProperSentenceEndings appends a full stop in the script of the text when the
// last rune does not already end a sentence.
func (p *Preprocessor) ensureProperSentenceEndings(text string) string {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return ""
	}

	lastChar, _ := utf8.DecodeLastRuneInString(trimmedText)
	if endsSentence(lastChar) {
		return trimmedText
	}

	if containsJapanese(trimmedText) {
		return trimmedText + japaneseStop
	}

	return trimmedText + fullStop
}

func endsSentence(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…', '」', '』', '）', ')', '"':
		return true
	default:
		return false
	}
}

func containsJapanese(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}

	return false
}
