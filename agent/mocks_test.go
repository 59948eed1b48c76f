package agent

import (
	"context"
	"io"
	"strings"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/blocks"
	"github.com/dspiers/pageant/workspace"
)

// call records one workspace API invocation.
type call struct {
	op       string
	targetID string
	title    string
	blocks   []blocks.Block
}

// recordingClient is a fake workspace with a few pages, recording every
// mutating call.
type recordingClient struct {
	pages    []workspace.Page
	children map[string][]blocks.Block
	calls    []call
	failWith error
}

func newRecordingClient(pages ...workspace.Page) *recordingClient {
	return &recordingClient{
		pages:    pages,
		children: map[string][]blocks.Block{},
	}
}

func (c *recordingClient) callsFor(op string) []call {
	var out []call
	for _, rec := range c.calls {
		if rec.op == op {
			out = append(out, rec)
		}
	}
	return out
}

func (c *recordingClient) SearchPages(ctx context.Context, query string) ([]workspace.Page, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	if query == "" {
		return c.pages, nil
	}
	var out []workspace.Page
	for _, p := range c.pages {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *recordingClient) CreatePage(ctx context.Context, parentID, title string, children []blocks.Block) (*workspace.Page, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	c.calls = append(c.calls, call{op: "create_page", targetID: parentID, title: title, blocks: children})
	page := workspace.Page{ID: "page-" + title, Title: title}
	c.pages = append(c.pages, page)
	return &page, nil
}

func (c *recordingClient) AppendBlocks(ctx context.Context, parentID string, children []blocks.Block) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.calls = append(c.calls, call{op: "append_blocks", targetID: parentID, blocks: children})
	return nil
}

func (c *recordingClient) UpdatePageTitle(ctx context.Context, pageID, title string) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.calls = append(c.calls, call{op: "update_title", targetID: pageID, title: title})
	return nil
}

func (c *recordingClient) ArchivePage(ctx context.Context, pageID string) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.calls = append(c.calls, call{op: "archive_page", targetID: pageID})
	return nil
}

func (c *recordingClient) DeleteBlock(ctx context.Context, blockID string) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.calls = append(c.calls, call{op: "delete_block", targetID: blockID})
	return nil
}

func (c *recordingClient) ChildBlocks(ctx context.Context, blockID string) ([]blocks.Block, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	return c.children[blockID], nil
}

func (c *recordingClient) UploadFile(ctx context.Context, filename string, data io.Reader) (*workspace.FileUpload, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	c.calls = append(c.calls, call{op: "upload_file", title: filename})
	return &workspace.FileUpload{ID: "upload-1"}, nil
}

var _ workspace.Client = (*recordingClient)(nil)

// sectionChildren builds a page child list holding one subpage section per
// given title, with block ID "b-<title>".
func sectionChildren(titles ...string) []blocks.Block {
	out := make([]blocks.Block, len(titles))
	for i, title := range titles {
		out[i] = blocks.Block{
			ID:        "b-" + title,
			Type:      "child_page",
			ChildPage: &blocks.ChildPagePayload{Title: title},
		}
	}
	return out
}

// destructiveErr is a canned transient-looking API error.
var destructiveErr = &pageant.APIError{Status: 500, Message: "boom"}
