package mcpserver

import (
	"context"

	"jira_mcp/internal/markup"

	"github.com/mark3labs/mcp-go/mcp"
)

func analyzeStoryStatusTool() mcp.Tool {
	return mcp.NewTool("jira_analyze_story_status",
		mcp.WithDescription("Work out where a Story should be from the status of its linked Tasks. Changes nothing."),
		mcp.WithString("story_key",
			mcp.Required(),
			mcp.Description("Story key"),
		),
	)
}

func (t *tools) handleAnalyzeStoryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "story_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	analysis, err := svc.AnalyzeStory(ctx, key)
	if err != nil {
		return jiraError("jira_analyze_story_status", err), nil
	}
	return jsonResult(analysis)
}

func updateStoryStatusTool() mcp.Tool {
	return mcp.NewTool("jira_update_story_status",
		mcp.WithDescription("Move a Story forward (To Do -> In Progress -> Done) when its linked Tasks warrant it, and comment why"),
		mcp.WithString("story_key",
			mcp.Required(),
			mcp.Description("Story key"),
		),
	)
}

func (t *tools) handleUpdateStoryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requireKey(req, "story_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	analysis, update, err := svc.UpdateStoryStatus(ctx, key)
	if err != nil && update == nil {
		return jiraError("jira_update_story_status", err), nil
	}
	result := map[string]any{
		"analysis": analysis,
		"updated":  update != nil,
	}
	if update != nil {
		result["update"] = update
	}
	if err != nil {
		// transitioned, but the audit comment failed
		result["warning"] = err.Error()
	}
	return jsonResult(result)
}

func updateEpicStoriesTool() mcp.Tool {
	return mcp.NewTool("jira_update_epic_stories",
		mcp.WithDescription("Run jira_update_story_status over every Story of an Epic. A failing Story is reported and skipped."),
		mcp.WithString("epic_key",
			mcp.Required(),
			mcp.Description("Epic key"),
		),
	)
}

func (t *tools) handleUpdateEpicStories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey, errRes := requireKey(req, "epic_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	result, err := svc.UpdateEpicStories(ctx, epicKey)
	if err != nil {
		return jiraError("jira_update_epic_stories", err), nil
	}
	return jsonResult(result)
}

func convertMarkdownTool() mcp.Tool {
	return mcp.NewTool("jira_convert_markdown",
		mcp.WithDescription("Convert markdown to Jira wiki markup without calling Jira"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Markdown text"),
		),
	)
}

func (t *tools) handleConvertMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(markup.ToJira(text)), nil
}
