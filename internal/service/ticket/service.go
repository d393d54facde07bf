// Package ticket is the facade between the MCP tools and Jira. It turns
// Jira's wire types into workflow items, converts markdown input to wiki
// markup, and drives the status rules against the live instance.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jira_mcp/internal/jira"
	"jira_mcp/internal/markup"
	"jira_mcp/internal/model"
	"jira_mcp/internal/service/notify"
	"jira_mcp/internal/workflow"
)

// Options configure a Service.
type Options struct {
	Project       string
	Transitions   workflow.TransitionIDs
	TaskLinkType  string
	EpicLinkField string
	Notifier      notify.Notifier
}

// Service implements workflow.Tracker on top of a Jira client.
type Service struct {
	client  *jira.Client
	opts    Options
	updater *workflow.Updater
}

var _ workflow.Tracker = (*Service)(nil)

// NewService wires a Service. Zero-valued options fall back to defaults.
func NewService(client *jira.Client, opts Options) *Service {
	if opts.Transitions.InProgress == "" || opts.Transitions.Done == "" {
		defaults := workflow.DefaultTransitionIDs()
		if opts.Transitions.InProgress == "" {
			opts.Transitions.InProgress = defaults.InProgress
		}
		if opts.Transitions.Done == "" {
			opts.Transitions.Done = defaults.Done
		}
	}
	if opts.TaskLinkType == "" {
		opts.TaskLinkType = "Relates"
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}

	s := &Service{client: client, opts: opts}
	s.updater = &workflow.Updater{
		Tracker:  s,
		IDs:      opts.Transitions,
		OnUpdate: opts.Notifier.StatusChanged,
	}
	return s
}

// IsNotFound reports whether err means the issue does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, jira.ErrNotFound)
}

// --- workflow.Tracker ---

// Item implements workflow.Tracker.
func (s *Service) Item(ctx context.Context, key string) (workflow.WorkItem, error) {
	issue, err := s.client.GetIssue(ctx, key)
	if err != nil {
		return workflow.WorkItem{}, err
	}
	return toWorkItem(*issue), nil
}

// Children implements workflow.Tracker: every issue whose parent is parentKey.
func (s *Service) Children(ctx context.Context, parentKey string) ([]workflow.WorkItem, error) {
	if err := ValidateKey(parentKey); err != nil {
		return nil, err
	}
	issues, err := s.client.SearchIssues(ctx, childrenJQL(parentKey, s.opts.EpicLinkField), 0)
	if err != nil {
		return nil, err
	}
	items := make([]workflow.WorkItem, 0, len(issues))
	for _, issue := range issues {
		items = append(items, toWorkItem(issue))
	}
	return items, nil
}

// Links implements workflow.Tracker.
func (s *Service) Links(ctx context.Context, key string) ([]workflow.Link, error) {
	issue, err := s.client.GetIssue(ctx, key, "issuelinks")
	if err != nil {
		return nil, err
	}
	return toLinks(issue.Fields.IssueLinks), nil
}

// Transition implements workflow.Tracker.
func (s *Service) Transition(ctx context.Context, key, transitionID string) error {
	return s.client.DoTransition(ctx, key, transitionID)
}

// Comment implements workflow.Tracker. body is sent as-is: callers hand in
// wiki markup.
func (s *Service) Comment(ctx context.Context, key, body string) error {
	_, err := s.client.AddComment(ctx, key, body)
	return err
}

// --- issues ---

// GetIssue returns the raw Jira issue.
func (s *Service) GetIssue(ctx context.Context, key string, fields ...string) (*model.JiraIssue, error) {
	return s.client.GetIssue(ctx, key, fields...)
}

// Search runs a JQL query and returns at most maxResults items.
func (s *Service) Search(ctx context.Context, jql string, maxResults int) ([]workflow.WorkItem, error) {
	issues, err := s.client.SearchIssues(ctx, jql, maxResults)
	if err != nil {
		return nil, err
	}
	items := make([]workflow.WorkItem, 0, len(issues))
	for _, issue := range issues {
		items = append(items, toWorkItem(issue))
	}
	return items, nil
}

// CreateRequest describes a new issue. Description is markdown.
type CreateRequest struct {
	Project     string
	IssueType   workflow.IssueType
	Summary     string
	Description string
	ParentKey   string
	Labels      []string
}

// CreateIssue creates an issue and returns it as a work item.
func (s *Service) CreateIssue(ctx context.Context, req CreateRequest) (workflow.WorkItem, error) {
	project := req.Project
	if project == "" {
		project = s.opts.Project
	}
	if project == "" {
		return workflow.WorkItem{}, fmt.Errorf("project key is required: pass one or set JIRA_PROJECT")
	}
	if strings.TrimSpace(req.Summary) == "" {
		return workflow.WorkItem{}, fmt.Errorf("summary is required")
	}
	issueType := req.IssueType
	if issueType == "" {
		issueType = workflow.IssueTypeTask
	}

	fields := map[string]any{
		"project":   map[string]string{"key": project},
		"summary":   req.Summary,
		"issuetype": map[string]string{"name": string(issueType)},
	}
	if req.Description != "" {
		fields["description"] = markup.ToJira(req.Description)
	}
	if len(req.Labels) > 0 {
		fields["labels"] = req.Labels
	}
	if req.ParentKey != "" {
		if s.opts.EpicLinkField != "" && issueType != workflow.IssueTypeEpic {
			fields[s.opts.EpicLinkField] = req.ParentKey
		} else {
			fields["parent"] = map[string]string{"key": req.ParentKey}
		}
	}

	created, err := s.client.CreateIssue(ctx, fields)
	if err != nil {
		return workflow.WorkItem{}, err
	}
	return workflow.WorkItem{
		Key:         created.Key,
		Summary:     req.Summary,
		Description: markup.ToJira(req.Description),
		Status:      workflow.StatusToDo,
		IssueType:   issueType,
		ParentKey:   req.ParentKey,
	}, nil
}

// CreateEpic creates an Epic.
func (s *Service) CreateEpic(ctx context.Context, project, summary, description string) (workflow.WorkItem, error) {
	return s.CreateIssue(ctx, CreateRequest{
		Project:     project,
		IssueType:   workflow.IssueTypeEpic,
		Summary:     summary,
		Description: description,
	})
}

// CreateStory creates a Story under epicKey. The epic must exist and be an Epic.
func (s *Service) CreateStory(ctx context.Context, epicKey, summary, description string) (workflow.WorkItem, error) {
	epic, err := s.Item(ctx, epicKey)
	if err != nil {
		return workflow.WorkItem{}, err
	}
	if epic.IssueType != workflow.IssueTypeEpic {
		return workflow.WorkItem{}, fmt.Errorf("%s is a %s, not an %s", epicKey, epic.IssueType, workflow.IssueTypeEpic)
	}
	return s.CreateIssue(ctx, CreateRequest{
		Project:     projectOf(epicKey),
		IssueType:   workflow.IssueTypeStory,
		Summary:     summary,
		Description: description,
		ParentKey:   epicKey,
	})
}

// CreateTask creates a Task and links it to storyKey with the configured
// link type, which is how Tasks hang off Stories.
func (s *Service) CreateTask(ctx context.Context, storyKey, summary, description string) (workflow.WorkItem, error) {
	story, err := s.Item(ctx, storyKey)
	if err != nil {
		return workflow.WorkItem{}, err
	}
	if story.IssueType != workflow.IssueTypeStory {
		return workflow.WorkItem{}, fmt.Errorf("%s is a %s, not a %s", storyKey, story.IssueType, workflow.IssueTypeStory)
	}
	item, err := s.CreateIssue(ctx, CreateRequest{
		Project:     projectOf(storyKey),
		IssueType:   workflow.IssueTypeTask,
		Summary:     summary,
		Description: description,
	})
	if err != nil {
		return workflow.WorkItem{}, err
	}
	if err := s.client.CreateIssueLink(ctx, s.opts.TaskLinkType, item.Key, storyKey); err != nil {
		return item, fmt.Errorf("created %s but could not link it to %s: %w", item.Key, storyKey, err)
	}
	return item, nil
}

// UpdateRequest changes summary and/or description. Empty fields are left alone.
type UpdateRequest struct {
	Summary     string
	Description string
	Labels      []string
}

// UpdateIssue updates the given fields of key.
func (s *Service) UpdateIssue(ctx context.Context, key string, req UpdateRequest) error {
	fields := map[string]any{}
	if req.Summary != "" {
		fields["summary"] = req.Summary
	}
	if req.Description != "" {
		fields["description"] = markup.ToJira(req.Description)
	}
	if req.Labels != nil {
		fields["labels"] = req.Labels
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}
	return s.client.UpdateIssue(ctx, key, fields)
}

// DeleteIssue deletes key and its subtasks.
func (s *Service) DeleteIssue(ctx context.Context, key string) error {
	return s.client.DeleteIssue(ctx, key, true)
}

// --- comments ---

// AddComment posts a markdown comment, converted to wiki markup.
func (s *Service) AddComment(ctx context.Context, key, body string) (*model.JiraComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	return s.client.AddComment(ctx, key, markup.ToJira(body))
}

// Comments lists the comments of key.
func (s *Service) Comments(ctx context.Context, key string) ([]model.JiraComment, error) {
	return s.client.GetComments(ctx, key)
}

// --- transitions ---

// Transitions lists the transitions available on key.
func (s *Service) Transitions(ctx context.Context, key string) ([]model.JiraTransition, error) {
	return s.client.GetTransitions(ctx, key)
}

// TransitionIssue moves key through the transition identified by target,
// which may be a transition id, a transition name or a target status name.
// A non-empty comment is posted afterwards.
func (s *Service) TransitionIssue(ctx context.Context, key, target, comment string) (model.JiraTransition, error) {
	available, err := s.client.GetTransitions(ctx, key)
	if err != nil {
		return model.JiraTransition{}, err
	}
	tr, ok := matchTransition(available, target)
	if !ok {
		names := make([]string, 0, len(available))
		for _, a := range available {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, a.ID))
		}
		return model.JiraTransition{}, fmt.Errorf("transition %q is not available on %s; available: %s",
			target, key, strings.Join(names, ", "))
	}
	if err := s.client.DoTransition(ctx, key, tr.ID); err != nil {
		return tr, err
	}
	if comment != "" {
		if _, err := s.AddComment(ctx, key, comment); err != nil {
			return tr, err
		}
	}
	return tr, nil
}

func matchTransition(available []model.JiraTransition, target string) (model.JiraTransition, bool) {
	for _, t := range available {
		if t.ID == target {
			return t, true
		}
	}
	for _, t := range available {
		if strings.EqualFold(t.Name, target) || (t.To != nil && strings.EqualFold(t.To.Name, target)) {
			return t, true
		}
	}
	return model.JiraTransition{}, false
}

// --- links ---

// LinkIssues links inwardKey and outwardKey with linkType.
func (s *Service) LinkIssues(ctx context.Context, linkType, inwardKey, outwardKey string) error {
	return s.client.CreateIssueLink(ctx, linkType, inwardKey, outwardKey)
}

// RemoveLink deletes a link by id.
func (s *Service) RemoveLink(ctx context.Context, linkID string) error {
	return s.client.DeleteIssueLink(ctx, linkID)
}

// LinkTypes lists the link types of the instance.
func (s *Service) LinkTypes(ctx context.Context) ([]workflow.LinkType, error) {
	types, err := s.client.GetIssueLinkTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]workflow.LinkType, 0, len(types))
	for _, t := range types {
		out = append(out, workflow.LinkType{ID: t.ID, Name: t.Name, Inward: t.Inward, Outward: t.Outward})
	}
	return out, nil
}

// --- hierarchy and status rules ---

// EpicChildren returns the epic's children plus, for each Story, its linked Tasks.
func (s *Service) EpicChildren(ctx context.Context, epicKey string) ([]StoryTree, error) {
	children, err := s.Children(ctx, epicKey)
	if err != nil {
		return nil, err
	}
	trees := make([]StoryTree, 0, len(children))
	for _, child := range children {
		tree := StoryTree{Item: child, Tasks: []workflow.WorkItem{}}
		if child.IssueType == workflow.IssueTypeStory {
			links, err := s.Links(ctx, child.Key)
			if err != nil {
				return nil, err
			}
			for _, l := range links {
				if l.Issue.IssueType == workflow.IssueTypeTask {
					tree.Tasks = append(tree.Tasks, l.Issue)
				}
			}
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// StoryTree is a child of an epic with its linked Tasks.
type StoryTree struct {
	Item  workflow.WorkItem   `json:"item"`
	Tasks []workflow.WorkItem `json:"tasks"`
}

// AnalyzeStory computes the status analysis of key without changing anything.
func (s *Service) AnalyzeStory(ctx context.Context, key string) (workflow.StatusAnalysis, error) {
	return s.updater.AnalyzeItem(ctx, key)
}

// UpdateStoryStatus analyzes key and applies the recommended transition, if any.
func (s *Service) UpdateStoryStatus(ctx context.Context, key string) (workflow.StatusAnalysis, *workflow.StatusUpdate, error) {
	return s.updater.AnalyzeAndTransition(ctx, key)
}

// UpdateEpicStories runs the status rules over every Story of epicKey.
func (s *Service) UpdateEpicStories(ctx context.Context, epicKey string) (workflow.BatchResult, error) {
	return s.updater.UpdateAllChildren(ctx, epicKey)
}

// ValidateEpic checks the Epic -> Story -> Task shape under epicKey.
func (s *Service) ValidateEpic(ctx context.Context, epicKey string) (workflow.HierarchyReport, error) {
	return workflow.ValidateEpic(ctx, epicKey, s)
}
