package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func createEpicTool() mcp.Tool {
	return mcp.NewTool("jira_create_epic",
		mcp.WithDescription("Create an Epic"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Epic title"),
		),
		mcp.WithString("description",
			mcp.Description("Epic description in markdown"),
		),
		mcp.WithString("project",
			mcp.Description("Project key; defaults to JIRA_PROJECT"),
		),
	)
}

func (t *tools) handleCreateEpic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	item, err := svc.CreateEpic(ctx, strings.ToUpper(req.GetString("project", "")), summary, req.GetString("description", ""))
	if err != nil {
		return jiraError("jira_create_epic", err), nil
	}
	return jsonResult(item)
}

func createStoryTool() mcp.Tool {
	return mcp.NewTool("jira_create_story",
		mcp.WithDescription("Create a Story under an Epic"),
		mcp.WithString("epic_key",
			mcp.Required(),
			mcp.Description("Key of the parent Epic"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Story title"),
		),
		mcp.WithString("description",
			mcp.Description("Story description in markdown"),
		),
	)
}

func (t *tools) handleCreateStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey, errRes := requireKey(req, "epic_key")
	if errRes != nil {
		return errRes, nil
	}
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	item, err := svc.CreateStory(ctx, epicKey, summary, req.GetString("description", ""))
	if err != nil {
		return jiraError("jira_create_story", err), nil
	}
	return jsonResult(item)
}

func createTaskTool() mcp.Tool {
	return mcp.NewTool("jira_create_task",
		mcp.WithDescription("Create a Task and link it to a Story"),
		mcp.WithString("story_key",
			mcp.Required(),
			mcp.Description("Key of the Story the Task belongs to"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Task description in markdown"),
		),
	)
}

func (t *tools) handleCreateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storyKey, errRes := requireKey(req, "story_key")
	if errRes != nil {
		return errRes, nil
	}
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	item, err := svc.CreateTask(ctx, storyKey, summary, req.GetString("description", ""))
	if err != nil {
		return jiraError("jira_create_task", err), nil
	}
	return jsonResult(item)
}

func getEpicChildrenTool() mcp.Tool {
	return mcp.NewTool("jira_get_epic_children",
		mcp.WithDescription("List the children of an Epic, with the Tasks linked to each Story"),
		mcp.WithString("epic_key",
			mcp.Required(),
			mcp.Description("Epic key"),
		),
	)
}

func (t *tools) handleGetEpicChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey, errRes := requireKey(req, "epic_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	children, err := svc.EpicChildren(ctx, epicKey)
	if err != nil {
		return jiraError("jira_get_epic_children", err), nil
	}
	return jsonResult(map[string]any{
		"epic_key": epicKey,
		"children": children,
	})
}

func validateHierarchyTool() mcp.Tool {
	return mcp.NewTool("jira_validate_hierarchy",
		mcp.WithDescription("Check that an Epic is an Epic and that each of its Stories has at least one linked Task"),
		mcp.WithString("epic_key",
			mcp.Required(),
			mcp.Description("Epic key"),
		),
	)
}

func (t *tools) handleValidateHierarchy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey, errRes := requireKey(req, "epic_key")
	if errRes != nil {
		return errRes, nil
	}
	svc, errRes := t.svc()
	if errRes != nil {
		return errRes, nil
	}

	report, err := svc.ValidateEpic(ctx, epicKey)
	if err != nil {
		return jiraError("jira_validate_hierarchy", err), nil
	}
	return jsonResult(report)
}
