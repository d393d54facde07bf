package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"jira_mcp/internal/logger"
	"jira_mcp/internal/service/ticket"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// tools holds what every handler needs.
type tools struct {
	service ServiceProvider
}

// registerJiraTools registers all Jira-related tools with the server
func registerJiraTools(s *server.MCPServer, t *tools) {
	// Issues
	s.AddTool(getIssueTool(), t.handleGetIssue)
	s.AddTool(searchTool(), t.handleSearch)
	s.AddTool(createIssueTool(), t.handleCreateIssue)
	s.AddTool(updateIssueTool(), t.handleUpdateIssue)
	s.AddTool(deleteIssueTool(), t.handleDeleteIssue)

	// Comments
	s.AddTool(addCommentTool(), t.handleAddComment)
	s.AddTool(getCommentsTool(), t.handleGetComments)

	// Transitions
	s.AddTool(getTransitionsTool(), t.handleGetTransitions)
	s.AddTool(transitionIssueTool(), t.handleTransitionIssue)

	// Links
	s.AddTool(createIssueLinkTool(), t.handleCreateIssueLink)
	s.AddTool(getIssueLinksTool(), t.handleGetIssueLinks)
	s.AddTool(removeIssueLinkTool(), t.handleRemoveIssueLink)
	s.AddTool(getLinkTypesTool(), t.handleGetLinkTypes)

	// Hierarchy
	s.AddTool(createEpicTool(), t.handleCreateEpic)
	s.AddTool(createStoryTool(), t.handleCreateStory)
	s.AddTool(createTaskTool(), t.handleCreateTask)
	s.AddTool(getEpicChildrenTool(), t.handleGetEpicChildren)
	s.AddTool(validateHierarchyTool(), t.handleValidateHierarchy)

	// Status automation
	s.AddTool(analyzeStoryStatusTool(), t.handleAnalyzeStoryStatus)
	s.AddTool(updateStoryStatusTool(), t.handleUpdateStoryStatus)
	s.AddTool(updateEpicStoriesTool(), t.handleUpdateEpicStories)

	// Markup
	s.AddTool(convertMarkdownTool(), t.handleConvertMarkdown)
}

// svc resolves the ticket service or turns the failure into a tool error.
func (t *tools) svc() (*ticket.Service, *mcp.CallToolResult) {
	svc, err := t.service()
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Jira is not configured: %v", err))
	}
	return svc, nil
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// jiraError reports a failed Jira call to the model instead of the transport.
func jiraError(tool string, err error) *mcp.CallToolResult {
	logger.GetLogger().Warn("jira call failed", zap.String("tool", tool), zap.Error(err))
	if ticket.IsNotFound(err) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: issue not found (%v)", tool, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool, err))
}

func requireKey(req mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	key := strings.TrimSpace(req.GetString(name, ""))
	if key == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is required", name))
	}
	key = strings.ToUpper(key)
	if err := ticket.ValidateKey(key); err != nil {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s: %v", name, err))
	}
	return key, nil
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// splitList parses a comma-separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
