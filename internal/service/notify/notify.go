// Package notify posts automatic status transitions to Slack.
package notify

import (
	"context"
	"fmt"

	"jira_mcp/internal/logger"
	"jira_mcp/internal/workflow"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Notifier is told about every automatic transition.
type Notifier interface {
	StatusChanged(ctx context.Context, update workflow.StatusUpdate)
}

// Nop drops every notification.
type Nop struct{}

// StatusChanged implements Notifier.
func (Nop) StatusChanged(context.Context, workflow.StatusUpdate) {}

// SlackNotifier posts one message per transition to a channel.
type SlackNotifier struct {
	api      *slack.Client
	channel  string
	jiraBase string
}

// NewSlackNotifier creates a notifier posting to channel. jiraBase is used to
// link issue keys; opts are passed to slack.New (tests point OptionAPIURL
// at a fake server).
func NewSlackNotifier(token, channel, jiraBase string, opts ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		api:      slack.New(token, opts...),
		channel:  channel,
		jiraBase: jiraBase,
	}
}

// StatusChanged implements Notifier. Failures are logged, never returned.
func (n *SlackNotifier) StatusChanged(ctx context.Context, update workflow.StatusUpdate) {
	_, _, err := n.api.PostMessageContext(ctx,
		n.channel,
		slack.MsgOptionText(n.format(update), false))
	if err != nil {
		logger.GetLogger().Error("failed to post status change to slack",
			zap.String("key", update.Key),
			zap.String("channel", n.channel),
			zap.Error(err))
	}
}

func (n *SlackNotifier) format(u workflow.StatusUpdate) string {
	key := u.Key
	if n.jiraBase != "" {
		key = fmt.Sprintf("<%s/browse/%s|%s>", n.jiraBase, u.Key, u.Key)
	}
	return fmt.Sprintf("🔄 %s moved from *%s* to *%s*\n>_%s_", key, u.OldStatus, u.NewStatus, u.Reason)
}
