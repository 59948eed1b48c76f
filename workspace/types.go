package workspace

import "github.com/dspiers/pageant/blocks"

// Page is a workspace page as seen by this client.
type Page struct {
	ID       string
	Title    string
	URL      string
	Archived bool
}

// SectionRef points at a resolvable target inside a page: a subpage block or
// a named block (heading, toggle) content can be placed under or removed.
type SectionRef struct {
	BlockID string
	Title   string

	// Type is the block type of the section anchor: "child_page",
	// "heading_2" or "toggle".
	Type string
}

// IsSubpage reports whether the section is a nested page, meaning content
// for it is appended to the subpage itself rather than after the anchor.
func (s *SectionRef) IsSubpage() bool {
	return s.Type == "child_page"
}

// AcceptsChildren reports whether the section's block can hold children of
// its own. Subpages and toggles can; the API rejects children on a plain
// heading, so content aimed there goes to the page instead.
func (s *SectionRef) AcceptsChildren() bool {
	return s.IsSubpage() || s.Type == "toggle"
}

// FileUpload is the result of uploading a file to the workspace.
type FileUpload struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// -----------------------------------------------------------------------------
// Wire envelopes
// -----------------------------------------------------------------------------

type searchRequest struct {
	Query  string        `json:"query,omitempty"`
	Filter *searchFilter `json:"filter,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Results    []pageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

type pageObject struct {
	ID         string                   `json:"id"`
	Object     string                   `json:"object"`
	Archived   bool                     `json:"archived"`
	URL        string                   `json:"url"`
	Properties map[string]propertyValue `json:"properties"`
}

type propertyValue struct {
	Type  string         `json:"type"`
	Title []richTextWire `json:"title"`
}

type richTextWire struct {
	PlainText string `json:"plain_text"`
}

// title extracts the page title from the title-typed property.
func (p *pageObject) title() string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		out := ""
		for _, rt := range prop.Title {
			out += rt.PlainText
		}
		return out
	}
	return ""
}

func (p *pageObject) toPage() Page {
	return Page{
		ID:       p.ID,
		Title:    p.title(),
		URL:      p.URL,
		Archived: p.Archived,
	}
}

type createPageRequest struct {
	Parent     parentRef                `json:"parent"`
	Properties map[string]titleProperty `json:"properties"`
	Children   []blocks.Block           `json:"children,omitempty"`
}

type parentRef struct {
	PageID    string `json:"page_id,omitempty"`
	Workspace bool   `json:"workspace,omitempty"`
}

type titleProperty struct {
	Title []titleRun `json:"title"`
}

type titleRun struct {
	Text titleText `json:"text"`
}

type titleText struct {
	Content string `json:"content"`
}

type appendBlocksRequest struct {
	Children []blocks.Block `json:"children"`
}

type patchPageRequest struct {
	Archived   *bool                    `json:"archived,omitempty"`
	Properties map[string]titleProperty `json:"properties,omitempty"`
}

type childBlocksResponse struct {
	Results    []blocks.Block `json:"results"`
	HasMore    bool           `json:"has_more"`
	NextCursor string         `json:"next_cursor"`
}

type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
