package parse

import (
	"regexp"
	"strings"

	"github.com/dspiers/pageant"
)

// Verb tables, checked against the first words of a command. Order within a
// command matters ("update the delete list" is an update), so only the first
// recognized verb decides the kind.
var verbKinds = map[string]pageant.ActionKind{
	"create": pageant.ActionCreate,
	"add":    pageant.ActionCreate,
	"write":  pageant.ActionCreate,
	"make":   pageant.ActionCreate,
	"insert": pageant.ActionCreate,
	"put":    pageant.ActionCreate,

	"update":  pageant.ActionUpdate,
	"edit":    pageant.ActionUpdate,
	"change":  pageant.ActionUpdate,
	"modify":  pageant.ActionUpdate,
	"append":  pageant.ActionUpdate,
	"rename":  pageant.ActionUpdate,
	"retitle": pageant.ActionUpdate,

	"delete": pageant.ActionDelete,
	"remove": pageant.ActionDelete,
	"erase":  pageant.ActionDelete,

	"find":   pageant.ActionFind,
	"search": pageant.ActionFind,
	"locate": pageant.ActionFind,

	"list": pageant.ActionList,
	"show": pageant.ActionList,

	"get":   pageant.ActionGet,
	"read":  pageant.ActionGet,
	"open":  pageant.ActionGet,
	"fetch": pageant.ActionGet,
}

// Format markers, checked against the command text after target clauses are
// removed. First match wins.
var formatMarkers = []struct {
	marker string
	format pageant.BlockFormat
}{
	{"to-do", pageant.FormatTodo},
	{"todo", pageant.FormatTodo},
	{"task", pageant.FormatTodo},
	{"bullet", pageant.FormatBullet},
	{"code", pageant.FormatCode},
	{"quote", pageant.FormatQuote},
	{"toggle", pageant.FormatToggle},
	{"callout", pageant.FormatCallout},
	{"heading", pageant.FormatHeading},
}

// Target clause patterns. All use a greedy prefix group so the clause binds
// to the end of the command, where targets live.
var (
	// "... in <section> section in <page> page"
	sectionPageRe = regexp.MustCompile(`(?i)^(.*)\s+in\s+(?:the\s+)?"?([^"]+?)"?\s+section\s+(?:in|of|on)\s+(?:the\s+)?"?([^"]+?)"?(?:\s+page)?\s*$`)

	// "... in/to/on <page> page"
	inPageRe = regexp.MustCompile(`(?i)^(.*)\s+(?:in|to|on|into)\s+(?:the\s+)?"?([^"]+?)"?\s+page\s*$`)

	// "... in <section> in <page>" (bare, no "page" suffix required)
	twoInRe = regexp.MustCompile(`(?i)^(.*)\s+in\s+(?:the\s+)?"?([^"]+?)"?\s+in\s+(?:the\s+)?"?([^"]+?)"?\s*$`)

	// "... page called/named/titled <name>"
	pageCalledRe = regexp.MustCompile(`(?i)^(.*?)\bpage\s+(?:called|named|titled)\s+"?([^"]+?)"?\s*$`)

	// "<the> <name> page" with no preposition, e.g. "delete the Old Ideas page"
	barePageRe = regexp.MustCompile(`(?i)^(?:the\s+)?"?([^"]+?)"?\s+page\s*$`)

	// "<a|new> page <name>" after a create verb
	newPageRe = regexp.MustCompile(`(?i)^(?:a\s+|an\s+|the\s+)?(?:new\s+)?page\s+"?([^"]+?)"?\s*$`)

	// "<page> page with <content>", the common update phrasing
	pageWithRe = regexp.MustCompile(`(?i)^(?:the\s+)?"?([^"]+?)"?\s+page\s+(?:with|saying|to say|adding)\s+(.+)$`)

	// "rename <page> [page] to <title>"
	renameRe = regexp.MustCompile(`(?i)^(?:rename|retitle)\s+(?:the\s+)?"?([^"]+?)"?(?:\s+page)?\s+to\s+"?([^"]+?)"?\s*$`)

	// trailing "in <Name>" where Name is title-cased; weakest pattern, last resort
	trailingInRe = regexp.MustCompile(`^(.*)\s+(?:in|In)\s+(?:the\s+)?"?([A-Z][^"]*?)"?\s*$`)

	// trailing "in <section>" inside an already-matched page clause
	innerInRe = regexp.MustCompile(`(?i)^(.*)\s+in\s+(?:the\s+)?"?([^"]+?)"?\s*$`)

	quotedRe = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// Words dropped from the front of the remainder when extracting content.
var contentStop = map[string]bool{
	"a": true, "an": true, "the": true,
	"to": true, "saying": true, "says": true, "that": true,
	"about": true, "with": true,
	"item": true, "point": true, "block": true, "note": true,
	"text": true, "entry": true,
	":": true, "-": true,
}

// heuristicParse applies the ordered rule set to a single command string.
// The second return reports whether the result is conclusive; inconclusive
// results still carry whatever was extracted so the caller can merge context
// from a previous segment or hand off to the LLM.
func heuristicParse(command string) (*pageant.Action, bool) {
	text := strings.Join(strings.Fields(command), " ")
	action := &pageant.Action{Format: pageant.FormatParagraph}

	if m := renameRe.FindStringSubmatch(text); m != nil {
		action.Kind = pageant.ActionUpdate
		action.Page = strings.TrimSpace(m[1])
		action.Title = strings.TrimSpace(m[2])
		return action, true
	}

	rest, verbFound := takeVerb(text, action)
	rest = stripFiller(rest)

	calledPage := false
	if m := pageCalledRe.FindStringSubmatch(rest); m != nil {
		action.Page = strings.TrimSpace(m[2])
		rest = strings.TrimSpace(m[1])
		calledPage = true
	} else {
		rest = takeTarget(rest, action)
	}

	// A create with no target yet may be a page creation: "create a new
	// page Meeting Notes".
	if action.Kind == pageant.ActionCreate && action.Page == "" {
		if m := newPageRe.FindStringSubmatch(rest); m != nil {
			action.Page = strings.TrimSpace(m[1])
			return action, verbFound && action.Page != ""
		}
	}

	// Non-create kinds accept "the X page" with no preposition.
	if action.Page == "" && action.Kind != pageant.ActionCreate {
		if m := barePageRe.FindStringSubmatch(rest); m != nil {
			action.Page = strings.TrimSpace(m[1])
			rest = ""
		}
	}

	takeFormat(rest, action)
	action.Content = extractContent(rest)

	// "show the Tasks page" names a specific page: a read, not a listing.
	if action.Kind == pageant.ActionList && action.Page != "" {
		action.Kind = pageant.ActionGet
	}

	// A delete carries no content; leftover text names the section, as in
	// "delete checklist in Tasks".
	if action.Kind == pageant.ActionDelete && action.Section == "" && action.Content != "" {
		action.Section = action.Content
		action.Content = ""
	}

	// "create a page called X" is a page creation; content-less creates
	// that never named a page that way carry nothing to add.
	pageCreation := calledPage && action.Content == ""

	conclusive := verbFound && (action.Page != "" || action.Kind == pageant.ActionList)
	if conclusive && action.Kind == pageant.ActionCreate && action.Content == "" && !pageCreation {
		conclusive = false
	}
	return action, conclusive
}

// stripFiller drops leading filler words left behind by the verb, so
// "search for the Budget page" and "show me all pages" reduce to their
// meat before target extraction.
func stripFiller(text string) string {
	filler := map[string]bool{"for": true, "me": true, "my": true, "all": true, "please": true}
	words := strings.Fields(text)
	for len(words) > 0 && filler[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// takeVerb finds the action verb among the first words of the command.
// Returns the command with the verb removed.
func takeVerb(text string, action *pageant.Action) (string, bool) {
	words := strings.Fields(text)
	for i, w := range words {
		if i > 2 {
			break
		}
		lw := strings.ToLower(strings.Trim(w, ",."))
		if kind, ok := verbKinds[lw]; ok {
			action.Kind = kind
			rest := strings.Join(append(append([]string{}, words[:i]...), words[i+1:]...), " ")
			return rest, true
		}
	}
	return text, false
}

// takeTarget extracts page and section targets from trailing clauses and
// returns the command with the clause removed.
func takeTarget(text string, action *pageant.Action) string {
	if m := sectionPageRe.FindStringSubmatch(text); m != nil {
		action.Section = strings.TrimSpace(m[2])
		action.Page = strings.TrimSpace(m[3])
		return strings.TrimSpace(m[1])
	}
	if m := pageWithRe.FindStringSubmatch(text); m != nil {
		action.Page = strings.TrimSpace(m[1])
		return strings.TrimSpace(m[2])
	}
	if m := inPageRe.FindStringSubmatch(text); m != nil {
		rest := strings.TrimSpace(m[1])
		action.Page = strings.TrimSpace(m[2])
		// The clause may itself be nested: "in checklist in Tasks page"
		// leaves a trailing "in checklist" naming the section.
		if mm := innerInRe.FindStringSubmatch(rest); mm != nil {
			action.Section = strings.TrimSpace(mm[2])
			rest = strings.TrimSpace(mm[1])
		}
		return rest
	}
	if m := pageCalledRe.FindStringSubmatch(text); m != nil {
		action.Page = strings.TrimSpace(m[2])
		return strings.TrimSpace(m[1])
	}
	if m := twoInRe.FindStringSubmatch(text); m != nil {
		action.Section = strings.TrimSpace(m[2])
		action.Page = strings.TrimSpace(m[3])
		return strings.TrimSpace(m[1])
	}
	if m := trailingInRe.FindStringSubmatch(text); m != nil {
		action.Page = strings.TrimSpace(m[2])
		return strings.TrimSpace(m[1])
	}
	return text
}

// takeFormat detects a format marker in the remainder.
func takeFormat(text string, action *pageant.Action) {
	lower := strings.ToLower(text)
	for _, entry := range formatMarkers {
		if strings.Contains(lower, entry.marker) {
			action.Format = entry.format
			return
		}
	}
}

// extractContent strips filler and format nouns from the remainder, leaving
// the text payload. Quoted spans win outright.
func extractContent(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	words := strings.Fields(text)
	for len(words) > 0 {
		lw := strings.ToLower(strings.Trim(words[0], ",.:"))
		if contentStop[lw] || isFormatNoun(lw) {
			words = words[1:]
			continue
		}
		break
	}
	// Dangling prepositions from a stripped target clause.
	for len(words) > 0 {
		lw := strings.ToLower(strings.Trim(words[len(words)-1], ",.:"))
		if contentStop[lw] || lw == "in" || lw == "on" || lw == "of" {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func isFormatNoun(w string) bool {
	for _, entry := range formatMarkers {
		if w == entry.marker || w == entry.marker+"s" {
			return true
		}
	}
	return false
}
