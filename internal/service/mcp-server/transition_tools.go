package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func getTransitionsTool() mcp.Tool {
	return mcp.NewTool("jira_get_transitions",
		mcp.WithDescription("List the workflow transitions available on a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
	)
}

func (t *tools) handleGetTransitions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	transitions, err := svc.Transitions(ctx, key)
	if err != nil {
		return jiraError("jira_get_transitions", err), nil
	}
	return jsonResult(map[string]any{
		"issue_key":   key,
		"transitions": transitions,
	})
}

func transitionIssueTool() mcp.Tool {
	return mcp.NewTool("jira_transition_issue",
		mcp.WithDescription("Move a Jira issue through a workflow transition"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("transition",
			mcp.Required(),
			mcp.Description("Transition id, transition name or target status (e.g. '31', 'Done')"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional markdown comment posted after the transition"),
		),
	)
}

func (t *tools) handleTransitionIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	target := strings.TrimSpace(req.GetString("transition", ""))
	if target == "" {
		return mcp.NewToolResultError("transition is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	tr, err := svc.TransitionIssue(ctx, key, target, req.GetString("comment", ""))
	if err != nil {
		return jiraError("jira_transition_issue", err), nil
	}
	return jsonResult(map[string]any{
		"issue_key":  key,
		"transition": tr,
	})
}
