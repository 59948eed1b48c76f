// Package agent implements the command orchestrator: a per-session state
// machine that parses instructions into action plans, gates destructive plans
// behind confirmation, resolves targets against the workspace and executes
// the plan.
//
// One Agent serves one conversation. It is not safe for concurrent use; a
// session handles one in-flight request at a time by design.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/parse"
	"github.com/dspiers/pageant/workspace"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Agent is the command orchestrator.
type Agent struct {
	client      workspace.Client
	parser      *parse.Parser
	resolver    *workspace.Resolver
	session     pageant.Session
	confirmGate bool
	logger      *zap.Logger

	// construction-time knobs, consumed in New
	model          llms.Model
	heuristicsOnly bool
	fuzzyThreshold float64
}

// Option configures an Agent at construction.
type Option func(*Agent)

// WithModel sets the LLM used for parse fallback.
func WithModel(model llms.Model) Option {
	return func(a *Agent) { a.model = model }
}

// WithParser replaces the default parser entirely.
func WithParser(p *parse.Parser) Option {
	return func(a *Agent) { a.parser = p }
}

// WithConfirmGate enables or disables the destructive-action confirmation
// gate. Enabled by default; disable only for scripted use.
func WithConfirmGate(enabled bool) Option {
	return func(a *Agent) { a.confirmGate = enabled }
}

// WithFuzzyThreshold sets the minimum title similarity for fuzzy target
// resolution.
func WithFuzzyThreshold(threshold float64) Option {
	return func(a *Agent) { a.fuzzyThreshold = threshold }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithConfig applies an AgentConfig, equivalent to the individual options.
func WithConfig(cfg pageant.AgentConfig) Option {
	return func(a *Agent) {
		a.confirmGate = cfg.ConfirmGateEnabled()
		a.heuristicsOnly = cfg.HeuristicsOnly
		a.fuzzyThreshold = cfg.FuzzyThreshold
	}
}

// New creates an Agent talking to the given workspace client.
func New(client workspace.Client, opts ...Option) *Agent {
	a := &Agent{
		client:      client,
		confirmGate: true,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.parser == nil {
		parserOpts := []parse.Option{parse.WithLogger(a.logger)}
		if a.model != nil {
			parserOpts = append(parserOpts, parse.WithModel(a.model))
		}
		if a.heuristicsOnly {
			parserOpts = append(parserOpts, parse.WithHeuristicsOnly())
		}
		a.parser = parse.New(parserOpts...)
	}
	a.resolver = workspace.NewResolver(client, a.fuzzyThreshold, a.logger)
	a.session.Reset()
	return a
}

// ChatOption configures a single Chat call.
type ChatOption func(*chatOptions)

type chatOptions struct {
	confirm bool
}

// WithConfirm pre-confirms this call: destructive actions parsed from it
// execute immediately, and a pending plan is confirmed regardless of the
// input text.
func WithConfirm() ChatOption {
	return func(o *chatOptions) { o.confirm = true }
}

var affirmatives = map[string]bool{
	"yes": true, "y": true, "yes please": true, "yep": true, "yeah": true,
	"confirm": true, "confirmed": true, "ok": true, "okay": true,
	"sure": true, "do it": true, "go ahead": true, "proceed": true,
}

var negatives = map[string]bool{
	"no": true, "n": true, "nope": true, "cancel": true, "stop": true,
	"abort": true, "nevermind": true, "never mind": true, "don't": true,
}

func isAffirmative(input string) bool {
	return affirmatives[strings.ToLower(strings.TrimSpace(strings.Trim(input, "!.")))]
}

func isNegative(input string) bool {
	return negatives[strings.ToLower(strings.TrimSpace(strings.Trim(input, "!.")))]
}

// Chat handles one conversational turn. Parse, validation and execution
// problems are reported in the reply, not as a returned error; the error
// return is reserved for context cancellation.
func (a *Agent) Chat(ctx context.Context, input string, opts ...ChatOption) (*pageant.Response, error) {
	var o chatOptions
	for _, opt := range opts {
		opt(&o)
	}
	input = strings.TrimSpace(input)

	if a.session.RequireConfirm() {
		switch {
		case o.confirm || isAffirmative(input):
			plan := a.session.Pending
			a.session.Reset()
			resp := a.executePlan(ctx, plan)
			a.session.State = pageant.StateExecuted
			return resp, ctx.Err()
		case isNegative(input):
			cancelled := a.session.LastInput
			a.session.Reset()
			return &pageant.Response{Content: fmt.Sprintf("Cancelled %q. Nothing was changed.", cancelled)}, nil
		default:
			// A fresh command while a plan is pending drops the plan.
			a.logger.Debug("pending plan superseded", zap.String("input", input))
			a.session.Reset()
		}
	} else if isAffirmative(input) {
		err := &pageant.ConfirmationError{Reason: "nothing is pending confirmation"}
		return &pageant.Response{Content: fmt.Sprintf("%v. Tell me what you'd like to do.", err)}, nil
	}

	if input == "" {
		return &pageant.Response{Content: "Tell me what you'd like to do, e.g. \"add a to-do to review code in Tasks page\"."}, nil
	}

	actions, err := a.parser.ParseAll(ctx, input)
	if err != nil {
		a.logger.Debug("parse failed", zap.String("input", input), zap.Error(err))
		return &pageant.Response{Content: fmt.Sprintf("Sorry, I couldn't understand that command (%v).", err)}, nil
	}

	destructive := false
	for _, action := range actions {
		if action.Kind.Destructive() {
			destructive = true
			break
		}
	}

	if destructive && a.confirmGate && !o.confirm {
		a.session.Pending = actions
		a.session.LastInput = input
		a.session.State = pageant.StateAwaitingConfirmation
		return &pageant.Response{Content: describePlan(actions) + "\n\nCONFIRM?"}, nil
	}

	resp := a.executePlan(ctx, actions)
	a.session.State = pageant.StateExecuted
	return resp, ctx.Err()
}

// RequireConfirm reports whether the session is blocked on a confirmation.
func (a *Agent) RequireConfirm() bool {
	return a.session.RequireConfirm()
}

// Session returns a copy of the current session state.
func (a *Agent) Session() pageant.Session {
	return a.session
}

// SetConfirmGate toggles the destructive-action confirmation gate.
func (a *Agent) SetConfirmGate(enabled bool) {
	a.confirmGate = enabled
}

// Reset clears any pending plan and returns the session to idle.
func (a *Agent) Reset() {
	a.session.Reset()
}

func describePlan(actions []*pageant.Action) string {
	if len(actions) == 1 {
		return "About to " + actions[0].Describe() + "."
	}
	var sb strings.Builder
	sb.WriteString("About to:")
	for i, action := range actions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, action.Describe())
	}
	return sb.String()
}
