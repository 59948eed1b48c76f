package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/blocks"
	"github.com/dspiers/pageant/workspace"
	"go.uber.org/zap"
)

// executePlan runs every action in order, collecting per-action outcomes.
// A failed action never aborts the plan: later actions are independent
// commands the user asked for in the same breath.
func (a *Agent) executePlan(ctx context.Context, actions []*pageant.Action) *pageant.Response {
	results := make([]*pageant.ActionResult, 0, len(actions))
	messages := make([]string, 0, len(actions))

	for _, action := range actions {
		result := a.execute(ctx, action)
		results = append(results, result)
		messages = append(messages, result.Message)
		if result.Err != nil {
			a.logger.Warn("action failed",
				zap.String("kind", string(action.Kind)),
				zap.String("page", action.Page),
				zap.Error(result.Err))
		}
	}

	return &pageant.Response{
		Content:  strings.Join(messages, "\n"),
		Executed: results,
	}
}

// execute runs one action against the workspace. Target-not-found and API
// failures are reported in the result, never raised; a destructive call is
// only issued once every resolution step has succeeded.
func (a *Agent) execute(ctx context.Context, action *pageant.Action) *pageant.ActionResult {
	result := &pageant.ActionResult{Action: action}

	if err := action.Validate(); err != nil {
		result.Err = err
		result.Message = fmt.Sprintf("Cannot %s: %v.", action.Kind, err)
		return result
	}

	var err error
	switch action.Kind {
	case pageant.ActionList:
		result.Message, err = a.listPages(ctx)
	case pageant.ActionFind:
		result.Message, err = a.findPage(ctx, action)
	case pageant.ActionGet:
		result.Message, err = a.readPage(ctx, action)
	case pageant.ActionCreate:
		result.Message, err = a.createContent(ctx, action)
	case pageant.ActionUpdate:
		result.Message, err = a.updateContent(ctx, action)
	case pageant.ActionDelete:
		result.Message, err = a.deleteTarget(ctx, action)
	default:
		err = &pageant.ValidationError{Field: "action", Reason: fmt.Sprintf("unhandled kind %q", action.Kind)}
	}

	if err != nil {
		result.Err = err
		result.Message = userMessage(action, err)
	}
	return result
}

func (a *Agent) listPages(ctx context.Context) (string, error) {
	pages, err := a.client.SearchPages(ctx, "")
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "No pages found in the workspace.", nil
	}
	titles := make([]string, len(pages))
	for i, p := range pages {
		titles[i] = p.Title
	}
	return fmt.Sprintf("Found %d pages: %s.", len(pages), strings.Join(titles, ", ")), nil
}

func (a *Agent) findPage(ctx context.Context, action *pageant.Action) (string, error) {
	page, err := a.resolver.Page(ctx, action.Page)
	if err != nil {
		return "", err
	}
	if page.URL != "" {
		return fmt.Sprintf("Found page %q: %s", page.Title, page.URL), nil
	}
	return fmt.Sprintf("Found page %q.", page.Title), nil
}

func (a *Agent) readPage(ctx context.Context, action *pageant.Action) (string, error) {
	page, err := a.resolver.Page(ctx, action.Page)
	if err != nil {
		return "", err
	}
	children, err := a.client.ChildBlocks(ctx, page.ID)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(children))
	for _, b := range children {
		if text := b.Text(); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Page %q is empty.", page.Title), nil
	}
	return fmt.Sprintf("Content of %q:\n%s", page.Title, strings.Join(lines, "\n")), nil
}

func (a *Agent) createContent(ctx context.Context, action *pageant.Action) (string, error) {
	// A create with no content is a page creation.
	if action.Content == "" {
		page, err := a.client.CreatePage(ctx, "", action.Page, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created page %q.", page.Title), nil
	}

	parentID, page, err := a.resolveTarget(ctx, action)
	if err != nil {
		return "", err
	}

	built := blocks.Build(action.Content, action.Format)
	if err := a.client.AppendBlocks(ctx, parentID, built); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %d %s to %q.", len(built), blockNoun(action.Format, len(built)), page.Title), nil
}

func (a *Agent) updateContent(ctx context.Context, action *pageant.Action) (string, error) {
	// An update carrying a new title is a rename, not an append.
	if action.Title != "" {
		page, err := a.resolver.Page(ctx, action.Page)
		if err != nil {
			return "", err
		}
		if err := a.client.UpdatePageTitle(ctx, page.ID, action.Title); err != nil {
			return "", err
		}
		return fmt.Sprintf("Renamed %q to %q.", page.Title, action.Title), nil
	}

	parentID, page, err := a.resolveTarget(ctx, action)
	if err != nil {
		return "", err
	}

	built := blocks.Build(action.Content, action.Format)
	if err := a.client.AppendBlocks(ctx, parentID, built); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated %q.", page.Title), nil
}

func (a *Agent) deleteTarget(ctx context.Context, action *pageant.Action) (string, error) {
	page, err := a.resolver.Page(ctx, action.Page)
	if err != nil {
		return "", err
	}

	if action.Section != "" {
		ref, err := a.resolver.Section(ctx, page, action.Section)
		if err != nil {
			return "", err
		}
		if err := a.client.DeleteBlock(ctx, ref.BlockID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %q from %q.", ref.Title, page.Title), nil
	}

	if err := a.client.ArchivePage(ctx, page.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted page %q.", page.Title), nil
}

// resolveTarget resolves the page and optional section of a content action,
// returning the block ID new content is appended to.
func (a *Agent) resolveTarget(ctx context.Context, action *pageant.Action) (string, *workspace.Page, error) {
	page, err := a.resolver.Page(ctx, action.Page)
	if err != nil {
		return "", nil, err
	}
	if action.Section == "" {
		return page.ID, page, nil
	}

	ref, err := a.resolver.Section(ctx, page, action.Section)
	if err != nil {
		return "", nil, err
	}
	if ref.AcceptsChildren() {
		return ref.BlockID, page, nil
	}
	// A plain heading cannot hold children; the content lands on the page.
	return page.ID, page, nil
}

// userMessage renders an execution error as a chat reply.
func userMessage(action *pageant.Action, err error) string {
	if pageant.IsNotFound(err) {
		return fmt.Sprintf("%v. Try \"list pages\" to see what's available.", capitalize(err.Error()))
	}
	return fmt.Sprintf("Could not %s: %v", action.Describe(), err)
}

func blockNoun(format pageant.BlockFormat, n int) string {
	noun := "block"
	switch format {
	case pageant.FormatTodo:
		noun = "to-do"
	case pageant.FormatBullet:
		noun = "bullet"
	}
	if n != 1 {
		return noun + "s"
	}
	return noun
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
