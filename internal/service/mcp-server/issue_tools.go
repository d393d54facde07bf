package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"jira_mcp/internal/service/ticket"
	"jira_mcp/internal/workflow"

	"github.com/mark3labs/mcp-go/mcp"
)

func getIssueTool() mcp.Tool {
	return mcp.NewTool("jira_get_issue",
		mcp.WithDescription("Get details of a specific Jira issue"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated fields to return in the results"),
		),
	)
}

func (t *tools) handleGetIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	issue, err := svc.GetIssue(ctx, key, splitList(req.GetString("fields", ""))...)
	if err != nil {
		return jiraError("jira_get_issue", err), nil
	}
	return jsonResult(issue)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("jira_search",
		mcp.WithDescription("Search Jira issues using JQL"),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query string, e.g. 'project = PROJ AND status = \"In Progress\"'"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default 50)"),
		),
	)
}

func (t *tools) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := strings.TrimSpace(req.GetString("jql", ""))
	if jql == "" {
		return mcp.NewToolResultError("jql is required"), nil
	}
	maxResults := int(req.GetFloat("max_results", 50))
	if maxResults <= 0 {
		maxResults = 50
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	items, err := svc.Search(ctx, jql, maxResults)
	if err != nil {
		return jiraError("jira_search", err), nil
	}
	return jsonResult(map[string]any{
		"jql":    jql,
		"total":  len(items),
		"issues": items,
	})
}

func createIssueTool() mcp.Tool {
	return mcp.NewTool("jira_create_issue",
		mcp.WithDescription("Create a Jira issue. The description may be markdown; it is converted to Jira wiki markup."),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Issue title"),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type name (default Task)"),
		),
		mcp.WithString("project",
			mcp.Description("Project key; defaults to JIRA_PROJECT"),
		),
		mcp.WithString("description",
			mcp.Description("Issue description in markdown"),
		),
		mcp.WithString("parent_key",
			mcp.Description("Parent issue key, e.g. the Epic of a Story"),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated labels"),
		),
	)
}

func (t *tools) handleCreateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	item, err := svc.CreateIssue(ctx, ticket.CreateRequest{
		Project:     strings.ToUpper(req.GetString("project", "")),
		IssueType:   workflow.IssueType(req.GetString("issue_type", "")),
		Summary:     summary,
		Description: req.GetString("description", ""),
		ParentKey:   strings.ToUpper(req.GetString("parent_key", "")),
		Labels:      splitList(req.GetString("labels", "")),
	})
	if err != nil {
		return jiraError("jira_create_issue", err), nil
	}
	return jsonResult(item)
}

func updateIssueTool() mcp.Tool {
	return mcp.NewTool("jira_update_issue",
		mcp.WithDescription("Update the summary, description or labels of a Jira issue. Omitted fields are left unchanged."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("summary",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description in markdown"),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated labels, replacing the current ones"),
		),
	)
}

func (t *tools) handleUpdateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	update := ticket.UpdateRequest{
		Summary:     req.GetString("summary", ""),
		Description: req.GetString("description", ""),
	}
	if labels, ok := req.GetArguments()["labels"].(string); ok {
		update.Labels = splitList(labels)
		if update.Labels == nil {
			update.Labels = []string{}
		}
	}
	if update.Summary == "" && update.Description == "" && update.Labels == nil {
		return mcp.NewToolResultError("nothing to update: pass summary, description or labels"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	if err := svc.UpdateIssue(ctx, key, update); err != nil {
		return jiraError("jira_update_issue", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated %s", key)), nil
}

func deleteIssueTool() mcp.Tool {
	return mcp.NewTool("jira_delete_issue",
		mcp.WithDescription("Delete a Jira issue and its subtasks. This cannot be undone."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true to delete"),
		),
	)
}

func (t *tools) handleDeleteIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	if !boolArg(req, "confirm", false) {
		return mcp.NewToolResultError("refusing to delete " + key + " without confirm=true"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	if err := svc.DeleteIssue(ctx, key); err != nil {
		return jiraError("jira_delete_issue", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", key)), nil
}
