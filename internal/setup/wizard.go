package setup

import (
	"fmt"
	"net/url"
	"strings"

	"jira_mcp/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Answers is everything the wizard collects.
type Answers struct {
	JiraURL  string
	Email    string
	APIToken string
	Project  string
	Hosts    []Host
}

// Validate checks the answers before anything is written.
func (a Answers) Validate() error {
	if err := validateURL(a.JiraURL); err != nil {
		return err
	}
	if strings.TrimSpace(a.APIToken) == "" {
		return fmt.Errorf("API token is required")
	}
	if len(a.Hosts) == 0 {
		return fmt.Errorf("select at least one host")
	}
	return nil
}

// Entry builds the mcpServers entry that launches command with these answers.
func (a Answers) Entry(command string) ServerEntry {
	env := map[string]string{
		config.EnvJiraURL:      strings.TrimRight(strings.TrimSpace(a.JiraURL), "/"),
		config.EnvJiraAPIToken: strings.TrimSpace(a.APIToken),
	}
	if a.Email != "" {
		env[config.EnvJiraEmail] = strings.TrimSpace(a.Email)
	}
	if a.Project != "" {
		env[config.EnvJiraProject] = strings.ToUpper(strings.TrimSpace(a.Project))
	}
	return ServerEntry{Command: command, Args: []string{"serve"}, Env: env}
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("jira URL must look like https://your-domain.atlassian.net")
	}
	return nil
}

// Prompt asks for the answers interactively, starting from defaults.
func Prompt(defaults Answers) (Answers, error) {
	a := defaults
	if len(a.Hosts) == 0 {
		a.Hosts = []Host{HostClaudeDesktop}
	}

	hostOptions := make([]huh.Option[Host], 0, len(Hosts))
	for _, h := range Hosts {
		hostOptions = append(hostOptions, huh.NewOption(h.DisplayName(), h))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira URL").
				Description("Base URL of your Jira site").
				Placeholder("https://your-domain.atlassian.net").
				Value(&a.JiraURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Description("Atlassian account email (leave empty for a Jira Server personal access token)").
				Value(&a.Email),
			huh.NewInput().
				Title("API token").
				Description("Create one at id.atlassian.com/manage-profile/security/api-tokens").
				EchoMode(huh.EchoModePassword).
				Value(&a.APIToken).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Default project").
				Description("Project key used when a tool call names none (optional)").
				Placeholder("e.g., PROJ").
				Value(&a.Project),
		),
		huh.NewGroup(
			huh.NewMultiSelect[Host]().
				Title("Configure").
				Description("Applications that should start this server").
				Options(hostOptions...).
				Value(&a.Hosts),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return Answers{}, err
	}
	return a, a.Validate()
}

// Result is the outcome for one host.
type Result struct {
	Host Host
	Path string
	Err  error
}

// Apply writes the server entry into every selected host's config. A failing
// host does not stop the others.
func Apply(a Answers, command string, env Env) []Result {
	entry := a.Entry(command)
	results := make([]Result, 0, len(a.Hosts))
	for _, h := range a.Hosts {
		r := Result{Host: h}
		r.Path, r.Err = env.ConfigPath(h)
		if r.Err == nil {
			r.Err = WriteConfig(r.Path, ServerName, entry)
		}
		results = append(results, r)
	}
	return results
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	})
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// Summary renders results for the terminal.
func Summary(results []Result) string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("Jira MCP setup") + "\n\n")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", failStyle.Render("✗"), r.Host.DisplayName(), r.Err)
			continue
		}
		fmt.Fprintf(&b, "%s %s %s\n", passStyle.Render("✓"), r.Host.DisplayName(), mutedStyle.Render(r.Path))
	}
	b.WriteString("\n" + mutedStyle.Render("Restart the application to load the server.") + "\n")
	return b.String()
}

// Failed reports whether any host could not be configured.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
