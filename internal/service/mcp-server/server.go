package mcpserver

import (
	"net/http"
	"sync"

	"jira_mcp/internal/logger"
	"jira_mcp/internal/service/ticket"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

// ServiceProvider hands out the ticket service. Tools call it on every
// request, so it must be cheap after the first call.
type ServiceProvider func() (*ticket.Service, error)

// Lazy wraps build so it runs once, on the first tool call. Listing tools
// or printing help therefore never needs Jira credentials.
func Lazy(build func() (*ticket.Service, error)) ServiceProvider {
	var (
		once sync.Once
		svc  *ticket.Service
		err  error
	)
	return func() (*ticket.Service, error) {
		once.Do(func() {
			svc, err = build()
		})
		return svc, err
	}
}

// Static returns a provider for an already built service.
func Static(svc *ticket.Service) ServiceProvider {
	return func() (*ticket.Service, error) { return svc, nil }
}

// NewServer creates a new MCP server instance with every Jira tool registered.
func NewServer(version string, provider ServiceProvider) *server.MCPServer {
	s := server.NewMCPServer(
		"jira-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	registerJiraTools(s, &tools{service: provider})

	return s
}

// Serve runs the MCP server over stdio until stdin closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// NewHTTPHandler exposes the MCP server over streamable HTTP at /mcp,
// plus a /healthz probe.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Any("/mcp", gin.WrapH(server.NewStreamableHTTPServer(s)))

	return r
}

const instructions = `Tools for a Jira project organised as Epic -> Story -> Task.
Stories belong to an Epic through the parent field; Tasks are attached to a Story with an issue link.
Descriptions and comments may be written in markdown, they are converted to Jira wiki markup.
jira_update_story_status and jira_update_epic_stories move Stories forward (To Do -> In Progress -> Done) from the status of their linked Tasks and leave an audit comment.`
