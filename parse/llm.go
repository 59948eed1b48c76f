package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/schema"
)

// actionSchema validates the model's JSON before it is trusted as an Action.
// A response with a hallucinated kind or a non-string field fails here and
// surfaces as a parse error instead of a malformed action.
var actionSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"action":  schema.String("What to do with the target").Enum(kindValues()...),
	"page":    schema.String("Title of the target page"),
	"section": schema.String("Nested page or section inside the target page"),
	"content": schema.String("Text payload for create/update actions"),
	"title":   schema.String("New page title when the command renames a page"),
	"format":  schema.String("Block format for the content").Enum(formatValues()...),
}, "action"))

func kindValues() []any {
	kinds := pageant.Kinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func formatValues() []any {
	formats := pageant.Formats()
	out := make([]any, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

const llmPromptTemplate = `You translate a user's workspace command into a JSON action descriptor.

Command: %q

Respond with a single JSON object and nothing else, matching this schema:
%s

Rules:
- "action" is one of: create, update, delete, find, list, get.
- "page" is the page the user is targeting. Leave it empty only for "list".
- "section" is set only when the user names a nested page or section.
- "content" is the text to write, without surrounding instructions.
- "title" is set only when the command renames a page; the action is then "update".
- "format" defaults to "paragraph" when the user gives no hint.`

// parseWithModel asks the LLM for a JSON action descriptor and validates it
// against actionSchema before decoding.
func (p *Parser) parseWithModel(ctx context.Context, command string) (*pageant.Action, error) {
	prompt := fmt.Sprintf(llmPromptTemplate, command, actionSchema.JSON())

	reply, err := pageant.Generate(ctx, p.model, prompt)
	if err != nil {
		return nil, &pageant.ParseError{Input: command, Err: fmt.Errorf("model call failed: %w", err)}
	}

	raw, err := decodeJSONObject(reply)
	if err != nil {
		return nil, &pageant.ParseError{Input: command, Err: err}
	}

	if err := actionSchema.Validate(raw); err != nil {
		return nil, &pageant.ParseError{Input: command, Err: err}
	}

	action := actionFromMap(raw)
	if err := action.Validate(); err != nil {
		return nil, &pageant.ParseError{Input: command, Err: err}
	}
	return action, nil
}

// decodeJSONObject extracts and decodes the first JSON object in a model
// reply, tolerating surrounding prose and markdown code fences.
func decodeJSONObject(reply string) (map[string]any, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}
	return raw, nil
}

func actionFromMap(raw map[string]any) *pageant.Action {
	kind, _ := pageant.ParseKind(stringField(raw, "action"))
	format, _ := pageant.ParseFormat(stringField(raw, "format"))
	return &pageant.Action{
		Kind:    kind,
		Page:    stringField(raw, "page"),
		Section: stringField(raw, "section"),
		Content: stringField(raw, "content"),
		Title:   stringField(raw, "title"),
		Format:  format,
	}
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
