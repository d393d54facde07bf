package ticket

import (
	"fmt"
	"regexp"
	"strings"

	"jira_mcp/internal/model"
	"jira_mcp/internal/workflow"
)

func toWorkItem(issue model.JiraIssue) workflow.WorkItem {
	item := workflow.WorkItem{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
	}
	if issue.Fields.Status != nil {
		item.Status = workflow.Status(issue.Fields.Status.Name)
	}
	if issue.Fields.IssueType != nil {
		item.IssueType = workflow.IssueType(issue.Fields.IssueType.Name)
	}
	if issue.Fields.Parent != nil {
		item.ParentKey = issue.Fields.Parent.Key
	}
	return item
}

func toLinks(links []model.JiraIssueLink) []workflow.Link {
	out := make([]workflow.Link, 0, len(links))
	for _, l := range links {
		link := workflow.Link{
			ID: l.ID,
			Type: workflow.LinkType{
				ID:      l.Type.ID,
				Name:    l.Type.Name,
				Inward:  l.Type.Inward,
				Outward: l.Type.Outward,
			},
		}
		switch {
		case l.InwardIssue != nil:
			link.Direction = workflow.LinkInward
			link.Issue = toWorkItem(*l.InwardIssue)
		case l.OutwardIssue != nil:
			link.Direction = workflow.LinkOutward
			link.Issue = toWorkItem(*l.OutwardIssue)
		default:
			continue
		}
		out = append(out, link)
	}
	return out
}

var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-[0-9]+$`)

// ValidateKey rejects anything that is not an upper-case issue key like
// PROJ-12. Keys end up inside JQL, so nothing else may pass.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid issue key %q", key)
	}
	return nil
}

// childrenJQL matches team-managed projects through parent and, when
// configured, classic projects through their Epic Link custom field.
// parentKey must already have passed ValidateKey.
func childrenJQL(parentKey, epicLinkField string) string {
	jql := fmt.Sprintf(`parent = "%s"`, parentKey)
	if epicLinkField != "" {
		id := strings.TrimPrefix(epicLinkField, "customfield_")
		jql = fmt.Sprintf(`(%s OR cf[%s] = "%s")`, jql, id, parentKey)
	}
	return jql + " ORDER BY key ASC"
}

// projectOf returns the project part of an issue key ("PROJ" for "PROJ-12").
func projectOf(key string) string {
	if i := strings.LastIndex(key, "-"); i > 0 {
		return key[:i]
	}
	return key
}
