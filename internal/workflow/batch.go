package workflow

import (
	"context"
	"fmt"

	"jira_mcp/internal/logger"

	"go.uber.org/zap"
)

// StatusUpdate records one automatic transition.
type StatusUpdate struct {
	Key       string `json:"key"`
	OldStatus Status `json:"oldStatus"`
	NewStatus Status `json:"newStatus"`
	Reason    string `json:"reason"`
}

// BatchFailure records an item that was skipped because a tracker call failed.
type BatchFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BatchResult is the outcome of UpdateAllChildren.
type BatchResult struct {
	Checked  int            `json:"checked"`
	Updated  int            `json:"updated"`
	Updates  []StatusUpdate `json:"updates"`
	Failures []BatchFailure `json:"failures,omitempty"`
}

// Updater applies recommended transitions through a Tracker.
type Updater struct {
	Tracker Tracker
	IDs     TransitionIDs
	// OnUpdate, if set, is called after each successful transition.
	OnUpdate func(ctx context.Context, update StatusUpdate)
}

// NewUpdater returns an Updater using the default transition ids.
func NewUpdater(tracker Tracker) *Updater {
	return &Updater{Tracker: tracker, IDs: DefaultTransitionIDs()}
}

// UpdateAllChildren runs UpdateAllChildren with the default transition ids.
func UpdateAllChildren(ctx context.Context, epicKey string, tracker Tracker) (BatchResult, error) {
	return NewUpdater(tracker).UpdateAllChildren(ctx, epicKey)
}

// AnalyzeItem fetches key and its linked items and analyzes it.
func (u *Updater) AnalyzeItem(ctx context.Context, key string) (StatusAnalysis, error) {
	item, err := u.Tracker.Item(ctx, key)
	if err != nil {
		return StatusAnalysis{}, err
	}
	return u.analyze(ctx, item)
}

// AnalyzeAndTransition analyzes key and, when a transition is recommended,
// applies it and posts an audit comment. The returned update is nil when
// nothing changed.
func (u *Updater) AnalyzeAndTransition(ctx context.Context, key string) (StatusAnalysis, *StatusUpdate, error) {
	item, err := u.Tracker.Item(ctx, key)
	if err != nil {
		return StatusAnalysis{}, nil, err
	}
	return u.apply(ctx, item)
}

// UpdateAllChildren walks every Story under epicKey, one at a time, and
// moves each one forward if its Tasks call for it. A Story whose tracker
// calls fail is recorded in Failures and skipped; it never stops the rest.
// Only failing to list the epic's children, or ctx ending, returns an error.
func (u *Updater) UpdateAllChildren(ctx context.Context, epicKey string) (BatchResult, error) {
	result := BatchResult{Updates: []StatusUpdate{}}

	children, err := u.Tracker.Children(ctx, epicKey)
	if err != nil {
		return result, fmt.Errorf("list children of %s: %w", epicKey, err)
	}

	log := logger.GetLogger().With(zap.String("epic", epicKey))
	for _, child := range children {
		if child.IssueType != IssueTypeStory {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Checked++
		_, update, err := u.apply(ctx, child)
		if update != nil {
			result.Updated++
			result.Updates = append(result.Updates, *update)
		}
		if err != nil {
			log.Warn("skipping story", zap.String("key", child.Key), zap.Error(err))
			result.Failures = append(result.Failures, BatchFailure{Key: child.Key, Error: err.Error()})
		}
	}

	log.Info("epic stories checked",
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

func (u *Updater) analyze(ctx context.Context, item WorkItem) (StatusAnalysis, error) {
	links, err := u.Tracker.Links(ctx, item.Key)
	if err != nil {
		return StatusAnalysis{}, fmt.Errorf("fetch links of %s: %w", item.Key, err)
	}
	return u.IDs.Analyze(item, linkedItems(links)), nil
}

// apply returns a non-nil update once the transition went through, even if
// posting the audit comment afterwards failed.
func (u *Updater) apply(ctx context.Context, item WorkItem) (StatusAnalysis, *StatusUpdate, error) {
	analysis, err := u.analyze(ctx, item)
	if err != nil {
		return analysis, nil, err
	}
	rec := analysis.RecommendedTransition
	if rec == nil {
		return analysis, nil, nil
	}

	if err := u.Tracker.Transition(ctx, item.Key, rec.ID); err != nil {
		return analysis, nil, fmt.Errorf("transition %s to %s: %w", item.Key, rec.Name, err)
	}
	update := &StatusUpdate{
		Key:       item.Key,
		OldStatus: item.Status,
		NewStatus: rec.Name,
		Reason:    rec.Reason,
	}
	logger.GetLogger().Info("status transitioned",
		zap.String("key", item.Key),
		zap.String("from", string(item.Status)),
		zap.String("to", string(rec.Name)))
	if u.OnUpdate != nil {
		u.OnUpdate(ctx, *update)
	}

	comment := BuildAuditComment(item.Status, rec.Name, rec.Reason, analysis.ChildSummary)
	if err := u.Tracker.Comment(ctx, item.Key, comment); err != nil {
		return analysis, update, fmt.Errorf("comment on %s: %w", item.Key, err)
	}
	return analysis, update, nil
}

func linkedItems(links []Link) []WorkItem {
	items := make([]WorkItem, 0, len(links))
	for _, l := range links {
		items = append(items, l.Issue)
	}
	return items
}
