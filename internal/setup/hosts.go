// Package setup registers the server with MCP host applications by writing
// their JSON configuration files.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Host is an application that launches MCP servers from a config file.
type Host string

const (
	HostClaudeDesktop Host = "claude-desktop"
	HostCursor        Host = "cursor"
)

// Hosts lists every supported host.
var Hosts = []Host{HostClaudeDesktop, HostCursor}

// DisplayName is the product name shown to the user.
func (h Host) DisplayName() string {
	switch h {
	case HostClaudeDesktop:
		return "Claude Desktop"
	case HostCursor:
		return "Cursor"
	}
	return string(h)
}

// ParseHost accepts a host id such as "cursor".
func ParseHost(s string) (Host, error) {
	for _, h := range Hosts {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown host %q (want one of %v)", s, Hosts)
}

// Env is what config path resolution depends on.
type Env struct {
	GOOS    string
	Home    string
	AppData string
}

// CurrentEnv reads Env from the running process.
func CurrentEnv() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("resolve home directory: %w", err)
	}
	return Env{GOOS: runtime.GOOS, Home: home, AppData: os.Getenv("APPDATA")}, nil
}

// ConfigPath returns where h keeps its MCP server list.
func (e Env) ConfigPath(h Host) (string, error) {
	switch h {
	case HostCursor:
		return filepath.Join(e.Home, ".cursor", "mcp.json"), nil
	case HostClaudeDesktop:
		switch e.GOOS {
		case "darwin":
			return filepath.Join(e.Home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
		case "windows":
			if e.AppData == "" {
				return "", fmt.Errorf("APPDATA is not set")
			}
			return filepath.Join(e.AppData, "Claude", "claude_desktop_config.json"), nil
		default:
			return filepath.Join(e.Home, ".config", "Claude", "claude_desktop_config.json"), nil
		}
	}
	return "", fmt.Errorf("unknown host %q", h)
}
