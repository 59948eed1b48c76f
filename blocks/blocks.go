// Package blocks constructs workspace content blocks from plain text.
//
// Build is a pure function of (content, format hint): the same input always
// yields the same blocks, and blocks are never mutated after construction.
// The shapes follow the workspace API's block schema: every block carries its
// type name, a payload object keyed by that type, and rich-text runs inside
// the payload.
package blocks

import (
	"strings"

	"github.com/dspiers/pageant"
)

// RichText is a single rich-text run.
type RichText struct {
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

// Text is the text payload of a rich-text run.
type Text struct {
	Content string `json:"content"`
}

// Block is one content block in the workspace API's schema. Exactly one of
// the payload fields is set, matching Type.
type Block struct {
	Object string `json:"object"`
	Type   string `json:"type"`

	Paragraph    *TextPayload    `json:"paragraph,omitempty"`
	BulletedItem *TextPayload    `json:"bulleted_list_item,omitempty"`
	ToDo         *ToDoPayload    `json:"to_do,omitempty"`
	Toggle       *TogglePayload  `json:"toggle,omitempty"`
	Code         *CodePayload    `json:"code,omitempty"`
	Quote        *TextPayload    `json:"quote,omitempty"`
	Heading      *TextPayload    `json:"heading_2,omitempty"`
	Callout      *CalloutPayload `json:"callout,omitempty"`

	// ID and ChildPage are populated on blocks read back from the API,
	// never on blocks built here.
	ID        string            `json:"id,omitempty"`
	ChildPage *ChildPagePayload `json:"child_page,omitempty"`
}

// TextPayload is the payload shared by paragraph, bullet, quote and heading
// blocks.
type TextPayload struct {
	RichText []RichText `json:"rich_text"`
}

// ToDoPayload is the payload of a to-do block.
type ToDoPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// TogglePayload is the payload of a toggle block with nested children.
type TogglePayload struct {
	RichText []RichText `json:"rich_text"`
	Children []Block    `json:"children,omitempty"`
}

// CodePayload is the payload of a code block.
type CodePayload struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// CalloutPayload is the payload of a callout block.
type CalloutPayload struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

// Icon is a callout icon.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// ChildPagePayload appears on blocks that represent subpages.
type ChildPagePayload struct {
	Title string `json:"title"`
}

// Text returns the concatenated plain text of the block's rich-text runs.
func (b *Block) Text() string {
	var runs []RichText
	switch {
	case b.Paragraph != nil:
		runs = b.Paragraph.RichText
	case b.BulletedItem != nil:
		runs = b.BulletedItem.RichText
	case b.ToDo != nil:
		runs = b.ToDo.RichText
	case b.Toggle != nil:
		runs = b.Toggle.RichText
	case b.Code != nil:
		runs = b.Code.RichText
	case b.Quote != nil:
		runs = b.Quote.RichText
	case b.Heading != nil:
		runs = b.Heading.RichText
	case b.Callout != nil:
		runs = b.Callout.RichText
	case b.ChildPage != nil:
		return b.ChildPage.Title
	}
	var sb strings.Builder
	for _, r := range runs {
		if r.Text != nil {
			sb.WriteString(r.Text.Content)
		}
	}
	return sb.String()
}

// Build converts content plus a format hint into one or more blocks.
//
// Bullet and to-do content is split on commas and semicolons, one block per
// item. Toggle content becomes a parent toggle whose children are bullet
// blocks, one per newline-separated line. Code content is wrapped verbatim
// with a detected or default language tag. Everything else yields a single
// block of the hinted type.
func Build(content string, format pageant.BlockFormat) []Block {
	switch format {
	case pageant.FormatBullet:
		items := splitItems(content)
		out := make([]Block, 0, len(items))
		for _, item := range items {
			out = append(out, Block{
				Object:       "block",
				Type:         "bulleted_list_item",
				BulletedItem: &TextPayload{RichText: richText(item)},
			})
		}
		return out

	case pageant.FormatTodo:
		items := splitItems(content)
		out := make([]Block, 0, len(items))
		for _, item := range items {
			out = append(out, Block{
				Object: "block",
				Type:   "to_do",
				ToDo:   &ToDoPayload{RichText: richText(item)},
			})
		}
		return out

	case pageant.FormatToggle:
		title, children := toggleParts(content)
		childBlocks := make([]Block, 0, len(children))
		for _, line := range children {
			childBlocks = append(childBlocks, Block{
				Object:       "block",
				Type:         "bulleted_list_item",
				BulletedItem: &TextPayload{RichText: richText(line)},
			})
		}
		return []Block{{
			Object: "block",
			Type:   "toggle",
			Toggle: &TogglePayload{
				RichText: richText(title),
				Children: childBlocks,
			},
		}}

	case pageant.FormatCode:
		return []Block{{
			Object: "block",
			Type:   "code",
			Code: &CodePayload{
				RichText: richText(content),
				Language: DetectLanguage(content),
			},
		}}

	case pageant.FormatQuote:
		return []Block{{
			Object: "block",
			Type:   "quote",
			Quote:  &TextPayload{RichText: richText(content)},
		}}

	case pageant.FormatHeading:
		return []Block{{
			Object:  "block",
			Type:    "heading_2",
			Heading: &TextPayload{RichText: richText(content)},
		}}

	case pageant.FormatCallout:
		return []Block{{
			Object: "block",
			Type:   "callout",
			Callout: &CalloutPayload{
				RichText: richText(content),
				Icon:     &Icon{Type: "emoji", Emoji: "💡"},
			},
		}}
	}

	return []Block{{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &TextPayload{RichText: richText(content)},
	}}
}

func richText(content string) []RichText {
	return []RichText{{Type: "text", Text: &Text{Content: content}}}
}

// splitItems splits list content on commas and semicolons, dropping empty
// items. Content with no separators yields a single item.
func splitItems(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == ';'
	})
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return []string{strings.TrimSpace(content)}
	}
	return items
}

// toggleParts splits toggle content into a title and child lines. The first
// newline-separated line is the toggle title; the rest become children. A
// single line yields a toggle with that line as title and no children.
func toggleParts(content string) (string, []string) {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	if len(cleaned) == 0 {
		return strings.TrimSpace(content), nil
	}
	return cleaned[0], cleaned[1:]
}
