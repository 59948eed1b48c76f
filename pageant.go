// Package pageant translates free-text instructions into calls against a
// workspace document API.
//
// An instruction like "add a to-do to review code in Tasks page" flows through
// four stages: the multi-command splitter ([parse.Split]) breaks compound input
// into single commands, the command parser ([parse.Parser]) turns each command
// into an [Action] using heuristics with an LLM fallback, the orchestrator
// (agent.Agent) gates destructive actions behind confirmation and resolves
// page/section targets, and the block builder (blocks.Build) shapes the content
// into the API's block schema before the workspace client issues the call.
//
// # Quick Start
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	client := workspace.NewHTTPClient(token)
//
//	a := agent.New(client, agent.WithModel(llm))
//
//	resp, _ := a.Chat(ctx, "add a to-do to review code in Tasks page")
//	fmt.Println(resp.Content) // plan description ending in "CONFIRM?"
//
//	resp, _ = a.Chat(ctx, "yes")
//	fmt.Println(resp.Content) // "Added 1 to-do block to Tasks."
//
// Destructive actions (create, update, delete) are never executed without an
// explicit confirmation step: either an affirmative reply to the confirmation
// prompt, or the [agent.WithConfirm] option on the call itself. Read-only
// actions (find, list, get) execute immediately.
package pageant

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Generate sends a prompt to the LLM and returns the response.
func Generate(ctx context.Context, model llms.Model, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, model, prompt)
}
