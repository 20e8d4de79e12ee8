// Package tokenizer provides token counting for prompt budgeting. Truncation
// decisions are sensitive to exact counts, so the production tokenizer uses a
// fixed, versioned tiktoken encoding.
package tokenizer

import (
	"fmt"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used unless configured otherwise.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts the tokens a string would occupy in a prompt.
type Tokenizer interface {
	CountTokens(text string) int
	Encoding() string
}

// Tiktoken counts tokens with a fixed tiktoken BPE encoding.
type Tiktoken struct {
	enc  *tiktoken.Tiktoken
	name string
}

// NewTiktoken creates a Tiktoken for the named encoding, defaulting to
// cl100k_base when the name is empty.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %s: %w", encoding, err)
	}
	return &Tiktoken{enc: enc, name: encoding}, nil
}

// CountTokens returns the number of BPE tokens in text.
func (t *Tiktoken) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Encoding returns the encoding name.
func (t *Tiktoken) Encoding() string { return t.name }

// Words is a cheap offline tokenizer: one token per word, one per
// punctuation rune. It undercounts relative to BPE encodings, so it is only
// suitable for tests and offline runs where reproducibility, not parity with
// a hosted model, is what matters.
type Words struct{}

// CountTokens counts whitespace-delimited words and punctuation runes.
func (Words) CountTokens(text string) int {
	tokens := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if inWord {
				tokens++
				inWord = false
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			if inWord {
				tokens++
				inWord = false
			}
			tokens++
		default:
			inWord = true
		}
	}
	if inWord {
		tokens++
	}
	return tokens
}

// Encoding returns the fixed name of the heuristic encoding.
func (Words) Encoding() string { return "words" }
