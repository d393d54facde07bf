package workflow

import (
	"fmt"
	"strings"
)

// TransitionIDs maps the target statuses to workflow transition ids. The ids
// belong to the Jira instance's workflow, so they come from configuration.
type TransitionIDs struct {
	InProgress string `json:"inProgress"`
	Done       string `json:"done"`
}

// DefaultTransitionIDs are the ids of Jira's default software workflow.
func DefaultTransitionIDs() TransitionIDs {
	return TransitionIDs{InProgress: "21", Done: "31"}
}

// Summarize buckets the Task children by status.
func Summarize(children []WorkItem) ChildSummary {
	var s ChildSummary
	for _, child := range children {
		if child.IssueType != IssueTypeTask {
			continue
		}
		s.Total++
		switch child.Status {
		case StatusDone:
			s.Done++
		case StatusInProgress:
			s.InProgress++
		case StatusToDo:
			s.ToDo++
		}
	}
	return s
}

// Analyze works out where parent should be, given its linked children, and
// recommends a transition using the default workflow ids.
func Analyze(parent WorkItem, children []WorkItem) StatusAnalysis {
	return DefaultTransitionIDs().Analyze(parent, children)
}

// Analyze is like the package-level Analyze with ids from ids.
func (ids TransitionIDs) Analyze(parent WorkItem, children []WorkItem) StatusAnalysis {
	summary := Summarize(children)
	shouldBeDone := summary.Total > 0 && summary.Done == summary.Total

	a := StatusAnalysis{
		ParentKey:          parent.Key,
		CurrentStatus:      parent.Status,
		ChildSummary:       summary,
		ShouldBeDone:       shouldBeDone,
		ShouldBeInProgress: !shouldBeDone && (summary.InProgress > 0 || summary.Done > 0),
	}
	a.RecommendedTransition = ids.Recommend(parent, a)
	return a
}

// RecommendTransition recommends a transition using the default workflow ids.
func RecommendTransition(parent WorkItem, a StatusAnalysis) *Transition {
	return DefaultTransitionIDs().Recommend(parent, a)
}

// Recommend returns the transition parent should take, or nil. Items only
// ever move forward: To Do -> In Progress -> Done.
func (ids TransitionIDs) Recommend(parent WorkItem, a StatusAnalysis) *Transition {
	s := a.ChildSummary
	switch {
	case a.ShouldBeDone && parent.Status != StatusDone:
		return &Transition{
			ID:     ids.Done,
			Name:   StatusDone,
			Reason: fmt.Sprintf("All %d related tasks are completed", s.Total),
		}
	case a.ShouldBeInProgress && parent.Status == StatusToDo:
		return &Transition{
			ID:     ids.InProgress,
			Name:   StatusInProgress,
			Reason: fmt.Sprintf("%d of %d tasks are started/completed", s.InProgress+s.Done, s.Total),
		}
	}
	return nil
}

// BuildAuditComment renders the wiki-markup comment posted on an item after
// it was transitioned automatically.
func BuildAuditComment(oldStatus, newStatus Status, reason string, s ChildSummary) string {
	var b strings.Builder
	b.WriteString("h3. Automatic status update\n\n")
	fmt.Fprintf(&b, "*Previous status:* %s\n", oldStatus)
	fmt.Fprintf(&b, "*New status:* %s\n", newStatus)
	fmt.Fprintf(&b, "*Reason:* %s\n\n", reason)
	b.WriteString("*Task summary:*\n")
	fmt.Fprintf(&b, "* Total: %d\n", s.Total)
	fmt.Fprintf(&b, "* Done: %d\n", s.Done)
	fmt.Fprintf(&b, "* In Progress: %d\n", s.InProgress)
	fmt.Fprintf(&b, "* To Do: %d", s.ToDo)
	return b.String()
}
