package setup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEntry = ServerEntry{
	Command: "/usr/local/bin/jira-mcp",
	Args:    []string{"serve"},
	Env:     map[string]string{"JIRA_URL": "https://acme.atlassian.net", "JIRA_API_TOKEN": "t"},
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestMergeServerEntry_Empty(t *testing.T) {
	out, err := MergeServerEntry(nil, ServerName, testEntry)
	require.NoError(t, err)

	root := decode(t, out)
	servers := root["mcpServers"].(map[string]any)
	jira := servers["jira"].(map[string]any)
	assert.Equal(t, "/usr/local/bin/jira-mcp", jira["command"])
	assert.Equal(t, []any{"serve"}, jira["args"])
}

func TestMergeServerEntry_KeepsOtherKeysAndServers(t *testing.T) {
	existing := []byte(`{
  // user settings
  "theme": "dark",
  "mcpServers": {
    "github": {"command": "gh-mcp", "args": []},
    "jira": {"command": "old"},
  },
}`)

	out, err := MergeServerEntry(existing, ServerName, testEntry)
	require.NoError(t, err)

	root := decode(t, out)
	assert.Equal(t, "dark", root["theme"])
	servers := root["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "github")
	assert.Equal(t, "/usr/local/bin/jira-mcp", servers["jira"].(map[string]any)["command"])
}

func TestMergeServerEntry_Invalid(t *testing.T) {
	_, err := MergeServerEntry([]byte(`[1, 2]`), ServerName, testEntry)
	assert.Error(t, err)

	_, err = MergeServerEntry([]byte(`{"mcpServers": "nope"}`), ServerName, testEntry)
	assert.Error(t, err)
}

func TestWriteConfig_CreatesDirAndRestrictsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "Claude", "claude_desktop_config.json")

	require.NoError(t, WriteConfig(path, ServerName, testEntry))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, decode(t, data), "mcpServers")
}

func TestWriteConfig_ExistingFileIsTightened(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"other": true}`), 0o644))

	require.NoError(t, WriteConfig(path, ServerName, testEntry))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, data)["other"])
}

func TestEnv_ConfigPath(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		host Host
		want string
	}{
		{"cursor", Env{GOOS: "linux", Home: "/home/u"}, HostCursor, filepath.Join("/home/u", ".cursor", "mcp.json")},
		{"claude mac", Env{GOOS: "darwin", Home: "/Users/u"}, HostClaudeDesktop,
			filepath.Join("/Users/u", "Library", "Application Support", "Claude", "claude_desktop_config.json")},
		{"claude linux", Env{GOOS: "linux", Home: "/home/u"}, HostClaudeDesktop,
			filepath.Join("/home/u", ".config", "Claude", "claude_desktop_config.json")},
		{"claude windows", Env{GOOS: "windows", AppData: "/appdata"}, HostClaudeDesktop,
			filepath.Join("/appdata", "Claude", "claude_desktop_config.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.env.ConfigPath(tt.host)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Env{GOOS: "windows"}.ConfigPath(HostClaudeDesktop)
	assert.Error(t, err)
}

func TestParseHost(t *testing.T) {
	h, err := ParseHost("cursor")
	require.NoError(t, err)
	assert.Equal(t, HostCursor, h)

	_, err = ParseHost("vim")
	assert.Error(t, err)
}

func TestAnswers_ValidateAndEntry(t *testing.T) {
	a := Answers{JiraURL: "https://acme.atlassian.net/", APIToken: " tok ", Project: "proj", Hosts: []Host{HostCursor}}
	require.NoError(t, a.Validate())

	entry := a.Entry("jira-mcp")
	assert.Equal(t, []string{"serve"}, entry.Args)
	assert.Equal(t, "https://acme.atlassian.net", entry.Env["JIRA_URL"])
	assert.Equal(t, "tok", entry.Env["JIRA_API_TOKEN"])
	assert.Equal(t, "PROJ", entry.Env["JIRA_PROJECT"])
	assert.NotContains(t, entry.Env, "JIRA_EMAIL")

	assert.Error(t, Answers{JiraURL: "acme", APIToken: "t", Hosts: Hosts}.Validate())
	assert.Error(t, Answers{JiraURL: "https://acme.atlassian.net", Hosts: Hosts}.Validate())
	assert.Error(t, Answers{JiraURL: "https://acme.atlassian.net", APIToken: "t"}.Validate())
}

func TestApply_WritesEveryHost(t *testing.T) {
	home := t.TempDir()
	a := Answers{JiraURL: "https://acme.atlassian.net", APIToken: "t", Hosts: Hosts}

	results := Apply(a, "jira-mcp", Env{GOOS: "linux", Home: home})
	require.Len(t, results, 2)
	assert.False(t, Failed(results))
	for _, r := range results {
		assert.FileExists(t, r.Path)
	}

	summary := Summary(results)
	assert.Contains(t, summary, "Claude Desktop")
	assert.Contains(t, summary, "Cursor")
}
