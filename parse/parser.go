// Package parse turns raw instruction text into structured actions.
//
// Parsing is two-layered. Ordered heuristic rules handle the common phrasings
// (action verb, "in X page" / "in X section in Y page" target clauses, format
// keywords); when they come up inconclusive the parser delegates to an LLM
// with a structured prompt and validates the returned JSON against a schema
// before trusting it. Compound input is split first by [Split], and verb-less
// segments inherit kind, format and page from the preceding segment.
package parse

import (
	"context"
	"errors"

	"github.com/dspiers/pageant"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Parser converts single command strings into actions.
type Parser struct {
	model          llms.Model
	heuristicsOnly bool
	logger         *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithModel sets the LLM used as a fallback for ambiguous phrasing.
// Without a model the parser runs in heuristics-only mode.
func WithModel(model llms.Model) Option {
	return func(p *Parser) { p.model = model }
}

// WithHeuristicsOnly disables the LLM fallback even when a model is set.
func WithHeuristicsOnly() Option {
	return func(p *Parser) { p.heuristicsOnly = true }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts one command string into an Action.
// Returns a *pageant.ParseError when neither heuristics nor the LLM can
// produce a valid action.
func (p *Parser) Parse(ctx context.Context, command string) (*pageant.Action, error) {
	return p.parseSegment(ctx, command, nil)
}

// ParseAll splits compound input and parses every segment in order.
// Verb-less segments inherit kind, format and page from the previous
// segment, so "add milk to Groceries page and also eggs" yields two create
// actions against the same page.
func (p *Parser) ParseAll(ctx context.Context, input string) ([]*pageant.Action, error) {
	segments := Split(input)
	actions := make([]*pageant.Action, 0, len(segments))

	var prev *pageant.Action
	for _, seg := range segments {
		action, err := p.parseSegment(ctx, seg, prev)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
		prev = action
	}
	return actions, nil
}

func (p *Parser) parseSegment(ctx context.Context, command string, prev *pageant.Action) (*pageant.Action, error) {
	action, conclusive := heuristicParse(command)

	if !conclusive && prev != nil {
		inherit(action, prev)
		conclusive = action.Kind != "" && (action.Page != "" || action.Kind == pageant.ActionList) &&
			(action.Content != "" || !action.Kind.Destructive())
	}

	if conclusive {
		if err := action.Validate(); err == nil {
			p.logger.Debug("parsed command heuristically",
				zap.String("command", command),
				zap.String("kind", string(action.Kind)),
				zap.String("page", action.Page))
			return action, nil
		}
	}

	if p.heuristicsOnly || p.model == nil {
		if conclusive {
			// Heuristics produced something structurally invalid.
			return nil, &pageant.ParseError{Input: command, Err: errors.New("heuristic result failed validation")}
		}
		return nil, &pageant.ParseError{Input: command, Err: errors.New("heuristics inconclusive and no model configured")}
	}

	p.logger.Debug("heuristics inconclusive, delegating to model",
		zap.String("command", command))
	return p.parseWithModel(ctx, command)
}

// inherit fills gaps in a verb-less or target-less segment from the previous
// action of the same compound command.
func inherit(action, prev *pageant.Action) {
	if action.Kind == "" {
		action.Kind = prev.Kind
	}
	if action.Page == "" {
		action.Page = prev.Page
		if action.Section == "" {
			action.Section = prev.Section
		}
	}
	if action.Format == pageant.FormatParagraph && prev.Format != pageant.FormatParagraph {
		action.Format = prev.Format
	}
}
