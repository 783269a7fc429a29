package plagiarism

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// typographic quotes, dashes and marks that show up in prose
const typographicMarks = "‘’“”„‚–—―…™®©«»"

// IsDelimiter reports whether r separates words.
func IsDelimiter(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if r < unicode.MaxASCII {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return strings.ContainsRune(typographicMarks, r)
}

// Tokenizer splits raw text into words.
type Tokenizer struct {
	// NormalizeUnicode applies NFC before splitting so that composed and
	// decomposed spellings compare equal. Case is never folded.
	NormalizeUnicode bool
}

// Tokenize returns the words of text in order. Empty or delimiter-only text
// yields an empty slice.
func (t Tokenizer) Tokenize(text string) []string {
	if t.NormalizeUnicode {
		text = norm.NFC.String(text)
	}

	tokens := make([]string, 0, len(text)/6)
	start := -1
	for i, r := range text {
		if IsDelimiter(r) {
			if start >= 0 {
				tokens = append(tokens, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

// Tokenize splits text with the default tokenizer.
func Tokenize(text string) []string {
	return Tokenizer{}.Tokenize(text)
}
