package workflow

import (
	"context"
	"fmt"
)

// HierarchyReport is the result of validating an epic. Only Issues make it
// invalid; Warnings flag shapes that look wrong but are allowed.
type HierarchyReport struct {
	EpicKey  string   `json:"epicKey"`
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// ValidateHierarchy checks an epic and its already-fetched children: the
// root must be an Epic, and every Story should link at least one Task.
// Errors from links are returned as-is.
func ValidateHierarchy(ctx context.Context, epic WorkItem, children []WorkItem, links LinkFetcher) (HierarchyReport, error) {
	report := HierarchyReport{
		EpicKey:  epic.Key,
		Issues:   []string{},
		Warnings: []string{},
	}

	if epic.IssueType != IssueTypeEpic {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%s is a %s, not an %s", epic.Key, epic.IssueType, IssueTypeEpic))
	}
	if len(children) == 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s has no child issues", epic.Key))
	}

	for _, child := range children {
		if child.IssueType != IssueTypeStory {
			continue
		}
		storyLinks, err := links.Links(ctx, child.Key)
		if err != nil {
			return report, err
		}
		if !hasLinkedTask(storyLinks) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("story %s has no linked tasks", child.Key))
		}
	}

	report.IsValid = len(report.Issues) == 0
	return report, nil
}

// ValidateEpic fetches epicKey and its children from tracker and validates them.
func ValidateEpic(ctx context.Context, epicKey string, tracker Tracker) (HierarchyReport, error) {
	epic, err := tracker.Item(ctx, epicKey)
	if err != nil {
		return HierarchyReport{}, err
	}
	children, err := tracker.Children(ctx, epicKey)
	if err != nil {
		return HierarchyReport{}, err
	}
	return ValidateHierarchy(ctx, epic, children, tracker)
}

func hasLinkedTask(links []Link) bool {
	for _, l := range links {
		if l.Issue.IssueType == IssueTypeTask {
			return true
		}
	}
	return false
}
