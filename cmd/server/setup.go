package main

import (
	"errors"
	"fmt"
	"os"

	"jira_mcp/internal/config"
	"jira_mcp/internal/setup"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Register the server with Claude Desktop and/or Cursor",
	Long: `Ask for the Jira connection details and write them into the MCP
configuration of the selected applications. Existing entries for other
servers are kept.

Pass --non-interactive with --url, --token and --host to skip the form.`,
	RunE: runSetup,
}

func init() {
	f := setupCmd.Flags()
	// Defaults stay empty so --help never prints a token from the environment.
	f.String("url", "", "Jira base URL (default $"+config.EnvJiraURL+")")
	f.String("email", "", "Atlassian account email (default $"+config.EnvJiraEmail+")")
	f.String("token", "", "Jira API token (default $"+config.EnvJiraAPIToken+")")
	f.String("project", "", "default project key (default $"+config.EnvJiraProject+")")
	f.StringSlice("host", nil, "host to configure: claude-desktop, cursor (repeatable)")
	f.String("command", "", "command the host should run (default: this executable)")
	f.Bool("non-interactive", false, "do not prompt; take everything from flags")
}

func runSetup(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	url := flagOrEnv(cmd, "url", config.EnvJiraURL)
	email := flagOrEnv(cmd, "email", config.EnvJiraEmail)
	token := flagOrEnv(cmd, "token", config.EnvJiraAPIToken)
	project := flagOrEnv(cmd, "project", config.EnvJiraProject)
	hostNames, _ := f.GetStringSlice("host")
	command, _ := f.GetString("command")
	nonInteractive, _ := f.GetBool("non-interactive")

	answers := setup.Answers{JiraURL: url, Email: email, APIToken: token, Project: project}
	for _, name := range hostNames {
		h, err := setup.ParseHost(name)
		if err != nil {
			return err
		}
		answers.Hosts = append(answers.Hosts, h)
	}

	var err error
	if nonInteractive {
		err = answers.Validate()
	} else {
		answers, err = setup.Prompt(answers)
	}
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Setup cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if command == "" {
		if command, err = os.Executable(); err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
	}
	env, err := setup.CurrentEnv()
	if err != nil {
		return err
	}

	results := setup.Apply(answers, command, env)
	fmt.Fprint(cmd.OutOrStdout(), setup.Summary(results))
	if setup.Failed(results) {
		return fmt.Errorf("some hosts could not be configured")
	}
	return nil
}

func flagOrEnv(cmd *cobra.Command, name, env string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return os.Getenv(env)
}
