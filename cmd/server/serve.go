package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jira_mcp/internal/config"
	"jira_mcp/internal/jira"
	"jira_mcp/internal/logger"
	mcpserver "jira_mcp/internal/service/mcp-server"
	"jira_mcp/internal/service/notify"
	"jira_mcp/internal/service/ticket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (stdio by default)",
	Long: `Run the MCP server.

Without flags the server speaks MCP over stdin/stdout, which is how Claude
Desktop and Cursor start it. With --http it serves streamable HTTP on /mcp.

Jira settings are read from the environment (JIRA_URL, JIRA_API_TOKEN,
JIRA_EMAIL, JIRA_PROJECT, ...) or the file named by JIRA_MCP_CONFIG on the
first tool call. LOG_LEVEL is resolved the same way at startup.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("http", "", "serve streamable HTTP on this address (e.g. :8080) instead of stdio")
}

func runServe(cmd *cobra.Command, args []string) error {
	level, err := config.LogLevel()
	if err != nil {
		return err
	}
	if err := logger.Init(level); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s := mcpserver.NewServer(Version, mcpserver.Lazy(newTicketService))

	addr, _ := cmd.Flags().GetString("http")
	if addr == "" {
		logger.GetLogger().Info("starting jira-mcp on stdio", zap.String("version", Version))
		return mcpserver.Serve(s)
	}
	return serveHTTP(cmd.Context(), addr, mcpserver.NewHTTPHandler(s))
}

// newTicketService builds the service from the environment. It runs on the
// first tool call, so a missing variable surfaces as a tool error.
func newTicketService() (*ticket.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger().Error("failed to load config", zap.Error(err))
		return nil, err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SlackEnabled() {
		notifier = notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannel, cfg.JiraURL)
	}

	logger.GetLogger().Info("jira client ready",
		zap.String("url", cfg.JiraURL),
		zap.String("project", cfg.JiraProject),
		zap.Bool("slack", cfg.SlackEnabled()))

	return ticket.NewService(jira.NewClient(cfg.JiraURL, cfg.JiraEmail, cfg.JiraAPIToken), ticket.Options{
		Project:       cfg.JiraProject,
		Transitions:   cfg.Transitions,
		TaskLinkType:  cfg.TaskLinkType,
		EpicLinkField: cfg.EpicLinkField,
		Notifier:      notifier,
	}), nil
}

func serveHTTP(ctx context.Context, addr string, h http.Handler) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.GetLogger().Info("starting jira-mcp on http", zap.String("addr", addr), zap.String("version", Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.GetLogger().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
