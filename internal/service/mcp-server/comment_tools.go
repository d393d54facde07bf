package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func addCommentTool() mcp.Tool {
	return mcp.NewTool("jira_add_comment",
		mcp.WithDescription("Add a comment to a Jira issue. Markdown is converted to Jira wiki markup."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Comment text in markdown"),
		),
	)
}

func (t *tools) handleAddComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	body := req.GetString("body", "")
	if strings.TrimSpace(body) == "" {
		return mcp.NewToolResultError("body is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	comment, err := svc.AddComment(ctx, key, body)
	if err != nil {
		return jiraError("jira_add_comment", err), nil
	}
	return jsonResult(comment)
}

func getCommentsTool() mcp.Tool {
	return mcp.NewTool("jira_get_comments",
		mcp.WithDescription("List the comments of a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
	)
}

func (t *tools) handleGetComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	comments, err := svc.Comments(ctx, key)
	if err != nil {
		return jiraError("jira_get_comments", err), nil
	}
	return jsonResult(map[string]any{
		"issue_key": key,
		"total":     len(comments),
		"comments":  comments,
	})
}
