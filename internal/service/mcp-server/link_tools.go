package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func createIssueLinkTool() mcp.Tool {
	return mcp.NewTool("jira_create_issue_link",
		mcp.WithDescription("Link two Jira issues. With type 'Blocks', the outward issue blocks the inward one."),
		mcp.WithString("link_type",
			mcp.Required(),
			mcp.Description("Link type name, see jira_get_link_types (e.g. 'Blocks', 'Relates')"),
		),
		mcp.WithString("inward_issue",
			mcp.Required(),
			mcp.Description("Issue key on the inward side"),
		),
		mcp.WithString("outward_issue",
			mcp.Required(),
			mcp.Description("Issue key on the outward side"),
		),
	)
}

func (t *tools) handleCreateIssueLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkType := strings.TrimSpace(req.GetString("link_type", ""))
	if linkType == "" {
		return mcp.NewToolResultError("link_type is required"), nil
	}
	inward, errRes := requireKey(req, "inward_issue")
	if errRes != nil {
		return errRes, nil
	}
	outward, errRes := requireKey(req, "outward_issue")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	if err := svc.LinkIssues(ctx, linkType, inward, outward); err != nil {
		return jiraError("jira_create_issue_link", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Linked %s and %s (%s)", inward, outward, linkType)), nil
}

func getIssueLinksTool() mcp.Tool {
	return mcp.NewTool("jira_get_issue_links",
		mcp.WithDescription("List the links of a Jira issue with their direction and the issue on the other end"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue key (e.g., 'PROJ-123')"),
		),
	)
}

func (t *tools) handleGetIssueLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "issue_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	links, err := svc.Links(ctx, key)
	if err != nil {
		return jiraError("jira_get_issue_links", err), nil
	}
	return jsonResult(map[string]any{
		"issue_key": key,
		"links":     links,
	})
}

func removeIssueLinkTool() mcp.Tool {
	return mcp.NewTool("jira_remove_issue_link",
		mcp.WithDescription("Remove an issue link by id (ids are returned by jira_get_issue_links)"),
		mcp.WithString("link_id",
			mcp.Required(),
			mcp.Description("Link id"),
		),
	)
}

func (t *tools) handleRemoveIssueLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("link_id", ""))
	if id == "" {
		return mcp.NewToolResultError("link_id is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	if err := svc.RemoveLink(ctx, id); err != nil {
		return jiraError("jira_remove_issue_link", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed link %s", id)), nil
}

func getLinkTypesTool() mcp.Tool {
	return mcp.NewTool("jira_get_link_types",
		mcp.WithDescription("List the issue link types configured in Jira"),
	)
}

func (t *tools) handleGetLinkTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	types, err := svc.LinkTypes(ctx)
	if err != nil {
		return jiraError("jira_get_link_types", err), nil
	}
	return jsonResult(map[string]any{"link_types": types})
}
