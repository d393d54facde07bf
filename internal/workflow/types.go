// Package workflow holds the Epic -> Story -> Task model and the rules that
// move a Story forward once its linked Tasks start or finish.
package workflow

import "context"

// Status is a Jira status name. The set is open: only the three constants
// below are reasoned about, anything else is carried through untouched.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// IssueType is a Jira issue type name. Matching is exact.
type IssueType string

const (
	IssueTypeEpic  IssueType = "Epic"
	IssueTypeStory IssueType = "Story"
	IssueTypeTask  IssueType = "Task"
	IssueTypeBug   IssueType = "Bug"
)

// WorkItem is one ticket as fetched from the tracker.
type WorkItem struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	IssueType   IssueType `json:"issueType"`
	ParentKey   string    `json:"parentKey,omitempty"`
}

// LinkDirection is the side of a link the queried item sits on.
type LinkDirection string

const (
	LinkInward  LinkDirection = "inward"
	LinkOutward LinkDirection = "outward"
)

// LinkType names a link and its two verbs, e.g. "blocks" / "is blocked by".
type LinkType struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// Link is a typed relationship from the queried item to Issue.
type Link struct {
	ID        string        `json:"id"`
	Type      LinkType      `json:"type"`
	Direction LinkDirection `json:"direction"`
	Issue     WorkItem      `json:"issue"`
}

// ChildSummary counts linked Tasks by status bucket. Tasks in a status
// outside the three buckets only count toward Total.
type ChildSummary struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"inProgress"`
	ToDo       int `json:"toDo"`
}

// Transition is a recommended workflow move for a parent item.
type Transition struct {
	ID     string `json:"id"`
	Name   Status `json:"name"`
	Reason string `json:"reason"`
}

// StatusAnalysis is computed on every call and never stored.
type StatusAnalysis struct {
	ParentKey             string       `json:"parentKey"`
	CurrentStatus         Status       `json:"currentStatus"`
	ChildSummary          ChildSummary `json:"childSummary"`
	ShouldBeDone          bool         `json:"shouldBeDone"`
	ShouldBeInProgress    bool         `json:"shouldBeInProgress"`
	RecommendedTransition *Transition  `json:"recommendedTransition,omitempty"`
}

// LinkFetcher returns the links of a single item.
type LinkFetcher interface {
	Links(ctx context.Context, key string) ([]Link, error)
}

// Tracker is everything the batch and validation code needs from the
// remote ticketing system.
type Tracker interface {
	LinkFetcher
	Item(ctx context.Context, key string) (WorkItem, error)
	Children(ctx context.Context, parentKey string) ([]WorkItem, error)
	Transition(ctx context.Context, key, transitionID string) error
	Comment(ctx context.Context, key, body string) error
}
