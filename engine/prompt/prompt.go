// Package prompt assembles token-bounded completion prompts from ranked
// context chunks. Assembly is greedy and deterministic: leading chunks are
// accepted while they fit the budget, and the first chunk that would
// overflow ends the scan. There is no partial-chunk inclusion.
package prompt

import (
	"strings"

	"github.com/lorekeep/lorekeep/pkg/tokenizer"
)

// Separator joins accepted context chunks inside the template.
const Separator = "\n\n###\n\n"

const template = `Answer the question based on the context below, and if the question cannot be answered from that context, say "I don't know".

Context:

{context}

---

Question: {question}
Answer:`

// Stats describes how a prompt was assembled.
type Stats struct {
	BaseTokens   int // tokens of the template rendered with empty context
	PromptTokens int // base plus all accepted chunks
	ChunksUsed   int
}

// Builder assembles prompts against a fixed tokenizer.
type Builder struct {
	tok tokenizer.Tokenizer
}

// NewBuilder creates a Builder that budgets with the given tokenizer.
func NewBuilder(tok tokenizer.Tokenizer) *Builder {
	return &Builder{tok: tok}
}

// Build renders the prompt for question with as many leading ranked chunks
// as fit within maxTokens. A budget smaller than the bare template is not an
// error; the prompt degrades to an empty context.
func (b *Builder) Build(question string, rankedTexts []string, maxTokens int) string {
	prompt, _ := b.BuildWithStats(question, rankedTexts, maxTokens)
	return prompt
}

// BuildWithStats is Build plus token accounting for the caller.
func (b *Builder) BuildWithStats(question string, rankedTexts []string, maxTokens int) (string, Stats) {
	base := b.tok.CountTokens(render("", question))

	used := base
	var selected []string
	for _, chunk := range rankedTexts {
		t := b.tok.CountTokens(chunk)
		if used+t > maxTokens {
			break
		}
		selected = append(selected, chunk)
		used += t
	}

	return render(strings.Join(selected, Separator), question), Stats{
		BaseTokens:   base,
		PromptTokens: used,
		ChunksUsed:   len(selected),
	}
}

func render(context, question string) string {
	out := strings.Replace(template, "{context}", context, 1)
	return strings.Replace(out, "{question}", question, 1)
}
