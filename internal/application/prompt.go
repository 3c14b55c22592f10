package application

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// richInstructions is sent verbatim as the system part of every rich prompt.
const richInstructions = `You turn a developer's git commits from today into one post for X (Twitter).

Rules:
1. Begin the post with exactly "Today's #git commit:" for a single commit, or "Today's #git commits:" for several.
2. When there are several commits, compress them into short, reader-friendly bullet points starting with "• ".
3. Never mention internal code paths, file names, function names, or section names.
4. When there are several commits, present them in chronological order, oldest first. The list you receive is newest first.
5. Finish with a few community hashtags such as #buildinpublic #100DaysOfCode #coding.
6. Keep the entire post under 280 characters, hashtags included.

Reply with the post text only.`

// minimalInstructions is the system part of a minimal prompt.
const minimalInstructions = "You are a helpful assistant that turns GitHub commit messages into engaging tweets. Keep it professional and under 280 characters."

// BuildPrompt constructs the generation request for a day's commits. It is
// pure: the same messages and repositories always produce the same prompt.
// Rich prompts list every message and every repository exactly once; minimal
// prompts carry only the flattened messages.
func BuildPrompt(style model.PromptStyle, messages, repositories []string) model.Prompt {
	if style == model.PromptStyleMinimal {
		return model.Prompt{
			Style:  model.PromptStyleMinimal,
			System: minimalInstructions,
			User:   "Convert these commit messages into a tweet summarizing today's work: " + strings.Join(messages, "\n"),
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Repositories (%d):\n", len(repositories))
	for _, repo := range repositories {
		fmt.Fprintf(&b, "- %s\n", repo)
	}

	fmt.Fprintf(&b, "\nCommit messages, newest first (%d):\n", len(messages))
	for i, msg := range messages {
		fmt.Fprintf(&b, "%d. %s\n", i+1, msg)
	}

	return model.Prompt{
		Style:  model.PromptStyleRich,
		System: richInstructions,
		User:   strings.TrimRight(b.String(), "\n"),
	}
}
