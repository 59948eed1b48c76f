package pageant

import (
	"fmt"
	"strings"
)

// ActionKind identifies what an Action does to the workspace.
type ActionKind string

const (
	// ActionCreate adds content: a new page when the action carries no
	// content, otherwise new blocks appended to an existing page.
	ActionCreate ActionKind = "create"

	// ActionUpdate modifies existing content on a page.
	ActionUpdate ActionKind = "update"

	// ActionDelete archives a page or removes a section from it.
	ActionDelete ActionKind = "delete"

	// ActionFind searches pages by title.
	ActionFind ActionKind = "find"

	// ActionList lists pages the integration can see.
	ActionList ActionKind = "list"

	// ActionGet reads the content of a single page.
	ActionGet ActionKind = "get"
)

// Kinds returns all valid action kinds. The order is stable and used when
// building the enum constraint for LLM response validation.
func Kinds() []ActionKind {
	return []ActionKind{
		ActionCreate, ActionUpdate, ActionDelete,
		ActionFind, ActionList, ActionGet,
	}
}

// ParseKind converts a string into an ActionKind.
// Returns false when s is not a valid kind.
func ParseKind(s string) (ActionKind, bool) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Kinds() {
		if k == valid {
			return k, true
		}
	}
	return "", false
}

// Destructive reports whether the kind mutates the workspace.
// Destructive actions are gated behind confirmation by the orchestrator.
func (k ActionKind) Destructive() bool {
	switch k {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// BlockFormat is the format hint for content block construction.
type BlockFormat string

const (
	FormatParagraph BlockFormat = "paragraph"
	FormatBullet    BlockFormat = "bullet"
	FormatTodo      BlockFormat = "todo"
	FormatToggle    BlockFormat = "toggle"
	FormatCode      BlockFormat = "code"
	FormatQuote     BlockFormat = "quote"
	FormatHeading   BlockFormat = "heading"
	FormatCallout   BlockFormat = "callout"
)

// Formats returns all valid block formats.
func Formats() []BlockFormat {
	return []BlockFormat{
		FormatParagraph, FormatBullet, FormatTodo, FormatToggle,
		FormatCode, FormatQuote, FormatHeading, FormatCallout,
	}
}

// ParseFormat converts a string into a BlockFormat. Unknown or empty strings
// fall back to FormatParagraph; the second return reports an exact match.
func ParseFormat(s string) (BlockFormat, bool) {
	f := BlockFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Formats() {
		if f == valid {
			return f, true
		}
	}
	return FormatParagraph, false
}

// Action is the structured intent derived from one command string.
// Actions are built fresh per request and never persisted.
type Action struct {
	// Kind is what the action does: create, update, delete, find, list, get.
	Kind ActionKind `json:"action"`

	// Page is the title of the target page. Required before execution for
	// every kind except list.
	Page string `json:"page,omitempty"`

	// Section is an optional nested target inside Page: a subpage or a
	// named section (heading/toggle) under which content is placed.
	Section string `json:"section,omitempty"`

	// Content is the text payload for create/update actions.
	Content string `json:"content,omitempty"`

	// Title is the new page title when an update renames the page.
	Title string `json:"title,omitempty"`

	// Format is the block format hint for Content.
	Format BlockFormat `json:"format,omitempty"`
}

// Validate checks that the action is executable.
// An Action must always have a non-empty page target before execution;
// listing is the one kind that can run against the whole workspace.
func (a *Action) Validate() error {
	if _, ok := ParseKind(string(a.Kind)); !ok {
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action kind %q", a.Kind)}
	}
	if a.Page == "" && a.Kind != ActionList {
		return &ValidationError{Field: "page", Reason: "no target page"}
	}
	return nil
}

// Describe renders the action as a short human-readable sentence, used in
// confirmation prompts and execution summaries.
func (a *Action) Describe() string {
	var sb strings.Builder
	switch a.Kind {
	case ActionCreate:
		if a.Content == "" {
			fmt.Fprintf(&sb, "create page %q", a.Page)
		} else {
			fmt.Fprintf(&sb, "add %s %q", formatNoun(a.Format), a.Content)
			if a.Section != "" {
				fmt.Fprintf(&sb, " under %q", a.Section)
			}
			fmt.Fprintf(&sb, " in %q", a.Page)
		}
	case ActionUpdate:
		if a.Title != "" {
			fmt.Fprintf(&sb, "rename page %q to %q", a.Page, a.Title)
		} else {
			fmt.Fprintf(&sb, "update %q with %s %q", a.Page, formatNoun(a.Format), a.Content)
		}
	case ActionDelete:
		if a.Section != "" {
			fmt.Fprintf(&sb, "delete section %q in %q", a.Section, a.Page)
		} else {
			fmt.Fprintf(&sb, "delete page %q", a.Page)
		}
	case ActionFind:
		fmt.Fprintf(&sb, "find page %q", a.Page)
	case ActionList:
		sb.WriteString("list pages")
	case ActionGet:
		fmt.Fprintf(&sb, "read page %q", a.Page)
	}
	return sb.String()
}

func formatNoun(f BlockFormat) string {
	switch f {
	case FormatTodo:
		return "to-do"
	case FormatBullet:
		return "bullet"
	case FormatCode:
		return "code block"
	case FormatQuote:
		return "quote"
	case FormatToggle:
		return "toggle"
	case FormatHeading:
		return "heading"
	case FormatCallout:
		return "callout"
	}
	return "paragraph"
}

// ActionResult records the outcome of executing a single action.
type ActionResult struct {
	Action *Action

	// Message is the user-facing summary for this action.
	Message string

	// Err is the execution error, if any. Target-not-found is reported
	// here as well so callers can distinguish it from success.
	Err error
}

// Response is the result of one chat turn.
type Response struct {
	// Content is the user-facing reply.
	Content string

	// Executed holds per-action outcomes when the turn executed a plan.
	// Nil for turns that only parsed or asked for confirmation.
	Executed []*ActionResult
}
