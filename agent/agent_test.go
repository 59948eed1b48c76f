package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/blocks"
	"github.com/dspiers/pageant/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasksWorkspace() *recordingClient {
	return newRecordingClient(
		workspace.Page{ID: "p1", Title: "Tasks", URL: "https://ws.example/tasks"},
		workspace.Page{ID: "p2", Title: "Personal thoughts"},
	)
}

func newTestAgent(client workspace.Client) *Agent {
	return New(client, WithConfig(pageant.AgentConfig{HeuristicsOnly: true}))
}

func TestChat_DestructiveRequiresConfirmation(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "add a to-do to review code in Tasks page")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "CONFIRM?")
	assert.True(t, a.RequireConfirm())
	assert.Empty(t, client.calls, "nothing may execute before confirmation")
}

func TestChat_ConfirmationExecutesExactlyOnce(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	_, err := a.Chat(context.Background(), "add a to-do to review code in Tasks page")
	require.NoError(t, err)

	resp, err := a.Chat(context.Background(), "yes")
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Tasks")

	appends := client.callsFor("append_blocks")
	require.Len(t, appends, 1)
	assert.Equal(t, "p1", appends[0].targetID)
	require.Len(t, appends[0].blocks, 1)
	assert.Equal(t, "to_do", appends[0].blocks[0].Type)
	assert.Equal(t, "review code", appends[0].blocks[0].Text())

	// A second affirmative must not replay the plan.
	_, err = a.Chat(context.Background(), "yes")
	require.NoError(t, err)
	assert.Len(t, client.callsFor("append_blocks"), 1)
}

func TestChat_CancelLeavesWorkspaceUntouched(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	_, err := a.Chat(context.Background(), "delete the Tasks page")
	require.NoError(t, err)
	require.True(t, a.RequireConfirm())

	resp, err := a.Chat(context.Background(), "no")
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Cancelled")
	assert.Contains(t, resp.Content, "delete the Tasks page",
		"the cancellation names the dropped command")
	assert.Empty(t, client.calls)
}

func TestChat_NewCommandSupersedesPendingPlan(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	_, err := a.Chat(context.Background(), "delete the Tasks page")
	require.NoError(t, err)
	require.True(t, a.RequireConfirm())

	resp, err := a.Chat(context.Background(), "list pages")
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Tasks")
	assert.Empty(t, client.callsFor("archive_page"), "the dropped plan must not run")
}

func TestChat_ReadOnlyNeverGated(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "list pages")
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Found 2 pages")
	assert.Contains(t, resp.Content, "Personal thoughts")
}

func TestChat_FindPageFuzzyMatch(t *testing.T) {
	a := newTestAgent(tasksWorkspace())

	resp, err := a.Chat(context.Background(), "find the personal thoght page")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Personal thoughts")
	assert.False(t, a.RequireConfirm())
}

func TestChat_NonexistentPageIsReportedNotRaised(t *testing.T) {
	a := newTestAgent(tasksWorkspace())

	resp, err := a.Chat(context.Background(), "find the Grocery List page")
	require.NoError(t, err, "execution problems go in the reply, not the error")
	assert.Contains(t, resp.Content, "not found")
	require.Len(t, resp.Executed, 1)
	assert.True(t, pageant.IsNotFound(resp.Executed[0].Err))
}

func TestChat_AffirmativeWithNothingPending(t *testing.T) {
	a := newTestAgent(tasksWorkspace())

	resp, err := a.Chat(context.Background(), "yes")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "nothing is pending")
	assert.False(t, a.RequireConfirm())
}

func TestChat_EmptyInput(t *testing.T) {
	a := newTestAgent(tasksWorkspace())

	resp, err := a.Chat(context.Background(), "   ")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Tell me what you'd like to do")
}

func TestChat_UnparseableInput(t *testing.T) {
	a := newTestAgent(tasksWorkspace())

	resp, err := a.Chat(context.Background(), "florble the wibble")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "couldn't understand")
	assert.False(t, a.RequireConfirm())
}

func TestChat_WithConfirmSkipsTheGate(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "delete the Tasks page", WithConfirm())
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Deleted page")
	require.Len(t, client.callsFor("archive_page"), 1)
	assert.Equal(t, "p1", client.callsFor("archive_page")[0].targetID)
}

func TestChat_ConfirmGateDisabled(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)
	a.SetConfirmGate(false)

	resp, err := a.Chat(context.Background(), "add buy milk in Personal thoughts")
	require.NoError(t, err)
	assert.False(t, a.RequireConfirm())
	assert.Contains(t, resp.Content, "Personal thoughts")
	assert.Len(t, client.callsFor("append_blocks"), 1)
}

func TestChat_MultiCommandPlan(t *testing.T) {
	client := tasksWorkspace()
	client.children["p2"] = nil
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(),
		"add buy milk in Personal thoughts and then add buy eggs in Personal thoughts")
	require.NoError(t, err)
	require.True(t, a.RequireConfirm(), "a plan with any destructive action is gated as a whole")
	assert.Contains(t, resp.Content, "1.")
	assert.Contains(t, resp.Content, "2.")

	resp, err = a.Chat(context.Background(), "go ahead")
	require.NoError(t, err)
	require.Len(t, resp.Executed, 2)
	appends := client.callsFor("append_blocks")
	require.Len(t, appends, 2)
	assert.Equal(t, "buy milk", appends[0].blocks[0].Text())
	assert.Equal(t, "buy eggs", appends[1].blocks[0].Text())
}

func TestChat_PartialFailureContinuesPlan(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(),
		"add buy milk in No Such Page; add buy eggs in Personal thoughts", WithConfirm())
	require.NoError(t, err)
	require.Len(t, resp.Executed, 2)
	assert.Error(t, resp.Executed[0].Err)
	assert.NoError(t, resp.Executed[1].Err)
	assert.Len(t, client.callsFor("append_blocks"), 1,
		"the second command still runs after the first fails")
}

func TestChat_CreateIntoSubpageSectionTargetsBlock(t *testing.T) {
	client := tasksWorkspace()
	client.children["p1"] = sectionChildren("checklist")
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(),
		"add buy milk in the checklist section in Tasks page", WithConfirm())
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Tasks")

	appends := client.callsFor("append_blocks")
	require.Len(t, appends, 1)
	assert.Equal(t, "b-checklist", appends[0].targetID)
	assert.Equal(t, "buy milk", appends[0].blocks[0].Text())
}

func TestChat_CreateIntoHeadingSectionAppendsToPage(t *testing.T) {
	client := tasksWorkspace()
	client.children["p1"] = []blocks.Block{{
		ID:   "b-backlog",
		Type: "heading_2",
		Heading: &blocks.TextPayload{
			RichText: []blocks.RichText{{Type: "text", Text: &blocks.Text{Content: "Backlog"}}},
		},
	}}
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(),
		"add buy milk in the Backlog section in Tasks page", WithConfirm())
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Tasks")

	// A heading cannot hold children, so the content goes to the page.
	appends := client.callsFor("append_blocks")
	require.Len(t, appends, 1)
	assert.Equal(t, "p1", appends[0].targetID)
}

func TestChat_RenamePage(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "rename the Tasks page to Projects")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "CONFIRM?", "a rename is destructive")

	resp, err = a.Chat(context.Background(), "yes")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, `Renamed "Tasks" to "Projects"`)

	renames := client.callsFor("update_title")
	require.Len(t, renames, 1)
	assert.Equal(t, "p1", renames[0].targetID)
	assert.Equal(t, "Projects", renames[0].title)
	assert.Empty(t, client.callsFor("append_blocks"), "a rename appends nothing")
}

func TestChat_DeleteSectionTargetsBlock(t *testing.T) {
	client := tasksWorkspace()
	client.children["p1"] = sectionChildren("checklist")
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "delete checklist in Tasks", WithConfirm())
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Deleted")

	deletes := client.callsFor("delete_block")
	require.Len(t, deletes, 1)
	assert.Equal(t, "b-checklist", deletes[0].targetID)
	assert.Empty(t, client.callsFor("archive_page"), "the page itself must survive")
}

func TestChat_CreatePageWithoutContent(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)

	resp, err := a.Chat(context.Background(), "create a page called Reading List", WithConfirm())
	require.NoError(t, err)
	assert.Contains(t, resp.Content, `Created page "Reading List"`)

	creates := client.callsFor("create_page")
	require.Len(t, creates, 1)
	assert.Equal(t, "Reading List", creates[0].title)
	assert.Empty(t, creates[0].blocks)
}

func TestChat_WorkspaceErrorIsReportedNotRaised(t *testing.T) {
	client := tasksWorkspace()
	a := newTestAgent(client)
	client.failWith = destructiveErr

	resp, err := a.Chat(context.Background(), "list pages")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Could not")
	require.Len(t, resp.Executed, 1)
	assert.ErrorIs(t, resp.Executed[0].Err, destructiveErr)
}

func TestDescribePlan(t *testing.T) {
	single := describePlan([]*pageant.Action{
		{Kind: pageant.ActionDelete, Page: "Tasks"},
	})
	assert.True(t, strings.HasPrefix(single, "About to "))
	assert.Contains(t, single, "Tasks")

	multi := describePlan([]*pageant.Action{
		{Kind: pageant.ActionCreate, Page: "Tasks", Content: "a"},
		{Kind: pageant.ActionDelete, Page: "Scratch"},
	})
	assert.Contains(t, multi, "1.")
	assert.Contains(t, multi, "2.")
}
