// Package workspace talks to the document workspace HTTP API: page search,
// page and block creation, updates, archival and file upload. It also houses
// the Resolver, which maps user-supplied page and section names onto concrete
// workspace objects with exact-then-fuzzy title matching.
package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/blocks"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the workspace API surface the orchestrator needs.
type Client interface {
	// SearchPages searches pages by title. An empty query lists every
	// page the integration can see.
	SearchPages(ctx context.Context, query string) ([]Page, error)

	// CreatePage creates a page. An empty parentID creates it at the
	// workspace root.
	CreatePage(ctx context.Context, parentID, title string, children []blocks.Block) (*Page, error)

	// AppendBlocks appends children to a page or block.
	AppendBlocks(ctx context.Context, parentID string, children []blocks.Block) error

	// UpdatePageTitle renames a page.
	UpdatePageTitle(ctx context.Context, pageID, title string) error

	// ArchivePage archives (soft-deletes) a page.
	ArchivePage(ctx context.Context, pageID string) error

	// DeleteBlock removes a single block.
	DeleteBlock(ctx context.Context, blockID string) error

	// ChildBlocks lists the direct children of a page or block.
	ChildBlocks(ctx context.Context, blockID string) ([]blocks.Block, error)

	// UploadFile uploads a file and returns its workspace handle.
	UploadFile(ctx context.Context, filename string, data io.Reader) (*FileUpload, error)
}

const (
	defaultBaseURL    = "https://api.notion.com"
	defaultAPIVersion = "2022-06-28"
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
)

// HTTPClient implements Client against the workspace REST API.
type HTTPClient struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL overrides the API endpoint. Used by tests and proxies.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithVersion overrides the API version header.
func WithVersion(v string) ClientOption {
	return func(c *HTTPClient) { c.version = v }
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithRetries configures the bounded retry for transient failures.
// A zero backoff disables the wait between attempts.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = max
		c.backoff = backoff
	}
}

// WithClientLogger sets the logger. Defaults to a no-op logger.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *HTTPClient) { c.logger = logger }
}

// NewHTTPClient creates a workspace API client using the given integration
// token.
func NewHTTPClient(token string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		token:      token,
		baseURL:    defaultBaseURL,
		version:    defaultAPIVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPages implements Client.
func (c *HTTPClient) SearchPages(ctx context.Context, query string) ([]Page, error) {
	req := searchRequest{
		Query:  query,
		Filter: &searchFilter{Property: "object", Value: "page"},
	}
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", req, &resp); err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(resp.Results))
	for _, obj := range resp.Results {
		if obj.Archived {
			continue
		}
		pages = append(pages, obj.toPage())
	}
	return pages, nil
}

// CreatePage implements Client.
func (c *HTTPClient) CreatePage(ctx context.Context, parentID, title string, children []blocks.Block) (*Page, error) {
	req := createPageRequest{
		Properties: map[string]titleProperty{
			"title": {Title: []titleRun{{Text: titleText{Content: title}}}},
		},
		Children: children,
	}
	if parentID == "" {
		req.Parent = parentRef{Workspace: true}
	} else {
		req.Parent = parentRef{PageID: normalizeID(parentID)}
	}

	var resp pageObject
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &resp); err != nil {
		return nil, err
	}
	page := resp.toPage()
	if page.Title == "" {
		page.Title = title
	}
	return &page, nil
}

// AppendBlocks implements Client.
func (c *HTTPClient) AppendBlocks(ctx context.Context, parentID string, children []blocks.Block) error {
	path := fmt.Sprintf("/v1/blocks/%s/children", normalizeID(parentID))
	return c.do(ctx, http.MethodPatch, path, appendBlocksRequest{Children: children}, nil)
}

// UpdatePageTitle implements Client.
func (c *HTTPClient) UpdatePageTitle(ctx context.Context, pageID, title string) error {
	req := patchPageRequest{
		Properties: map[string]titleProperty{
			"title": {Title: []titleRun{{Text: titleText{Content: title}}}},
		},
	}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+normalizeID(pageID), req, nil)
}

// ArchivePage implements Client.
func (c *HTTPClient) ArchivePage(ctx context.Context, pageID string) error {
	archived := true
	req := patchPageRequest{Archived: &archived}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+normalizeID(pageID), req, nil)
}

// DeleteBlock implements Client.
func (c *HTTPClient) DeleteBlock(ctx context.Context, blockID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/blocks/"+normalizeID(blockID), nil, nil)
}

// ChildBlocks implements Client.
func (c *HTTPClient) ChildBlocks(ctx context.Context, blockID string) ([]blocks.Block, error) {
	var resp childBlocksResponse
	path := fmt.Sprintf("/v1/blocks/%s/children?page_size=100", normalizeID(blockID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// UploadFile implements Client. Uploads are the one call most prone to
// transient failure, so they go through the same bounded retry as the rest.
func (c *HTTPClient) UploadFile(ctx context.Context, filename string, data io.Reader) (*FileUpload, error) {
	// The body is buffered once so retries can resend it.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to read upload data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload body: %w", err)
	}

	var upload FileUpload
	err = c.withRetry(ctx, "upload "+filename, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/file_uploads", bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return c.send(req, &upload)
	})
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// do issues one JSON API call with bounded retry on transient failures.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	return c.withRetry(ctx, method+" "+path, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.send(req, out)
	})
}

// send executes the request and decodes either the result or the API's error
// envelope.
func (c *HTTPClient) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workspace request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope apiErrorResponse
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return &pageant.APIError{
			Status:  resp.StatusCode,
			Code:    envelope.Code,
			Message: msg,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// withRetry runs fn up to maxRetries+1 times, backing off between attempts
// on transient failures (rate limits, server errors).
func (c *HTTPClient) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !pageant.IsTransient(err) || attempt >= c.maxRetries {
			return err
		}

		c.logger.Warn("transient workspace error, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// normalizeID renders a workspace object ID in canonical dashed UUID form.
// IDs that are not UUIDs pass through unchanged.
func normalizeID(id string) string {
	if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return parsed.String()
	}
	return id
}
