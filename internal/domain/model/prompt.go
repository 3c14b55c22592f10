package model

// PromptStyle selects which summarizer prompt a deployment uses.
type PromptStyle string

const (
	// PromptStyleRich asks for a bulleted, hashtagged post with a fixed lead-in.
	PromptStyleRich PromptStyle = "rich"
	// PromptStyleMinimal asks for a short professional post from a flat message list.
	PromptStyleMinimal PromptStyle = "minimal"
)

// Prompt is a single text-generation request.
type Prompt struct {
	Style  PromptStyle
	System string
	User   string
}
