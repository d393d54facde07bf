package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "jira-mcp version dev\n", out.String())
}

func TestSetupCmd_NonInteractive(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"setup", "--non-interactive",
		"--url", "https://acme.atlassian.net",
		"--token", "tok",
		"--project", "proj",
		"--host", "cursor",
		"--command", "/opt/jira-mcp",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Cursor")

	data, err := os.ReadFile(filepath.Join(home, ".cursor", "mcp.json"))
	require.NoError(t, err)

	var cfg struct {
		MCPServers map[string]struct {
			Command string            `json:"command"`
			Args    []string          `json:"args"`
			Env     map[string]string `json:"env"`
		} `json:"mcpServers"`
	}
	require.NoError(t, json.Unmarshal(data, &cfg))
	entry := cfg.MCPServers["jira"]
	assert.Equal(t, "/opt/jira-mcp", entry.Command)
	assert.Equal(t, []string{"serve"}, entry.Args)
	assert.Equal(t, "PROJ", entry.Env["JIRA_PROJECT"])
}

func TestSetupCmd_FlagDefaultsHideEnvironment(t *testing.T) {
	for _, name := range []string{"url", "email", "token", "project"} {
		assert.Empty(t, setupCmd.Flags().Lookup(name).DefValue, name)
	}
	assert.Contains(t, setupCmd.Flags().Lookup("token").Usage, "$JIRA_API_TOKEN")
}

func TestSetupCmd_TokenFromEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("JIRA_API_TOKEN", "env-token")
	require.NoError(t, setupCmd.Flags().Set("token", ""))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"setup", "--non-interactive",
		"--url", "https://acme.atlassian.net",
		"--host", "cursor",
		"--command", "/opt/jira-mcp",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(home, ".cursor", "mcp.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"JIRA_API_TOKEN": "env-token"`)
}

func TestNewTicketService_MissingConfig(t *testing.T) {
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_API_TOKEN", "")
	t.Setenv("JIRA_MCP_CONFIG", "")

	_, err := newTicketService()
	assert.ErrorContains(t, err, "JIRA_URL")
}
