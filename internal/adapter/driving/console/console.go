// Package console implements the interactive terminal surface: commit
// listings, draft preview, and the publish confirmation prompt.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Approver = (*Approver)(nil)

// postLimit is the length the prompt asks the model to stay under. It is
// shown next to the draft, not enforced.
const postLimit = 280

var (
	colorAccent = lipgloss.Color("#00FFFF")
	colorOK     = lipgloss.Color("#00FF00")
	colorWarn   = lipgloss.Color("#FFA500")
	colorMuted  = lipgloss.Color("8")
)

// styles holds lipgloss styles bound to one output's renderer, so colors are
// only emitted when that output supports them.
type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	draft  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(colorAccent),
		label:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(colorMuted),
		draft: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),
		ok:   r.NewStyle().Foreground(colorOK),
		warn: r.NewStyle().Foreground(colorWarn),
	}
}

// PrintCommits writes a human-readable listing of the batch to w.
func PrintCommits(w io.Writer, batch model.CommitBatch) {
	st := newStyles(w)

	if batch.IsEmpty() {
		fmt.Fprintln(w, st.muted.Render("No commits found for today."))
		return
	}

	noun := "commits"
	if len(batch.Commits) == 1 {
		noun = "commit"
	}
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Found %d %s for today:", len(batch.Commits), noun)))
	fmt.Fprintln(w)

	for _, c := range batch.Commits {
		if c.Repository != "" {
			fmt.Fprintf(w, "%s %s\n", st.label.Render("Repository:"), c.Repository)
		}
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Message:"), c.Message)
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Time:"), c.Timestamp.Local().Format(time.Kitchen))
		if c.URL != "" {
			fmt.Fprintf(w, "%s %s\n", st.label.Render("URL:"), c.URL)
		}
		fmt.Fprintln(w)
	}
}

// PrintDraft writes the draft in a bordered box followed by its length.
func PrintDraft(w io.Writer, draft model.PostDraft) {
	st := newStyles(w)

	fmt.Fprintln(w, st.header.Render("Generated post:"))
	fmt.Fprintln(w, st.draft.Render(draft.String()))

	count := utf8.RuneCountInString(draft.String())
	counter := fmt.Sprintf("%d/%d characters", count, postLimit)
	if count > postLimit {
		fmt.Fprintln(w, st.warn.Render(counter+" (over limit)"))
		return
	}
	fmt.Fprintln(w, st.muted.Render(counter))
}

// PrintPublished reports a successful publish.
func PrintPublished(w io.Writer, post model.PostResult) {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", st.ok.Render("Posted:"), post.URL)
}

// Approver shows the day's commits and the draft, then asks the operator to
// confirm. Only "y" or "yes" (any case) approve; anything else, including
// EOF, declines.
type Approver struct {
	in  io.Reader
	out io.Writer
}

// NewApprover creates an Approver reading answers from in and writing to out.
func NewApprover(in io.Reader, out io.Writer) *Approver {
	return &Approver{in: in, out: out}
}

// Approve implements driven.Approver. It returns ctx.Err() if ctx is done
// before an answer arrives. The read itself cannot be interrupted, so on
// cancellation the reader goroutine stays blocked on in until it yields a
// line or EOF (or the process exits). Callers should not reuse in after a
// canceled Approve.
func (a *Approver) Approve(ctx context.Context, batch model.CommitBatch, draft model.PostDraft) (bool, error) {
	PrintCommits(a.out, batch)
	PrintDraft(a.out, draft)
	fmt.Fprint(a.out, "\nPublish this post? (y/n): ")

	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && line == "" {
			// EOF or a broken reader counts as "no".
			answer <- ""
			return
		}
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(a.out)
		return false, ctx.Err()
	case line := <-answer:
		ok := IsAffirmative(line)
		if !ok {
			fmt.Fprintln(a.out, newStyles(a.out).muted.Render("Cancelled, nothing was posted."))
		}
		return ok, nil
	}
}

// IsAffirmative reports whether an operator answer means yes.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
