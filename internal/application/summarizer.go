package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Summarizer turns a day's commit messages into a post draft.
type Summarizer struct {
	generator driven.TextGenerator
	style     model.PromptStyle
}

// NewSummarizer creates a Summarizer using the given prompt style.
func NewSummarizer(generator driven.TextGenerator, style model.PromptStyle) *Summarizer {
	return &Summarizer{generator: generator, style: style}
}

// Summarize builds the prompt, submits it once, and returns the completion
// verbatim. The 280-character and lead-in rules are requested in the prompt
// and not checked here. Empty output is reported as driven.ErrGeneration.
func (s *Summarizer) Summarize(ctx context.Context, messages, repositories []string) (model.PostDraft, error) {
	prompt := BuildPrompt(s.style, messages, repositories)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: generator returned empty text", driven.ErrGeneration)
	}

	slog.Debug("draft generated",
		"style", s.style,
		"characters", utf8.RuneCountInString(text),
	)

	return model.PostDraft(text), nil
}
