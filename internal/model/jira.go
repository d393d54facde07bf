package model

// JiraIssue represents a Jira issue response
type JiraIssue struct {
	ID     string     `json:"id,omitempty"`
	Key    string     `json:"key"`
	Self   string     `json:"self,omitempty"`
	Fields JiraFields `json:"fields"`
}

// JiraFields represents the fields in a Jira issue
type JiraFields struct {
	Summary     string          `json:"summary"`
	Status      *JiraStatus     `json:"status,omitempty"`
	Description string          `json:"description,omitempty"`
	Assignee    *JiraUser       `json:"assignee,omitempty"`
	Reporter    *JiraUser       `json:"reporter,omitempty"`
	IssueType   *JiraIssueType  `json:"issuetype,omitempty"`
	Project     *JiraProject    `json:"project,omitempty"`
	Parent      *JiraParent     `json:"parent,omitempty"`
	Priority    *JiraPriority   `json:"priority,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	IssueLinks  []JiraIssueLink `json:"issuelinks,omitempty"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
}

// JiraStatus represents the status of a Jira issue
type JiraStatus struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// JiraUser represents a Jira user
type JiraUser struct {
	AccountID    string `json:"accountId,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// JiraIssueType represents the type of a Jira issue
type JiraIssueType struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// JiraProject references a Jira project
type JiraProject struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key"`
}

// JiraParent references the parent of an issue (Epic for a Story)
type JiraParent struct {
	ID     string      `json:"id,omitempty"`
	Key    string      `json:"key"`
	Fields *JiraFields `json:"fields,omitempty"`
}

// JiraPriority represents the priority of a Jira issue
type JiraPriority struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// JiraLinkType represents a link type with its two verbs
type JiraLinkType struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// JiraIssueLink is an entry of fields.issuelinks. Exactly one of
// InwardIssue and OutwardIssue is set, depending on the direction.
type JiraIssueLink struct {
	ID           string       `json:"id,omitempty"`
	Type         JiraLinkType `json:"type"`
	InwardIssue  *JiraIssue   `json:"inwardIssue,omitempty"`
	OutwardIssue *JiraIssue   `json:"outwardIssue,omitempty"`
}

// JiraLinkTypesResponse represents the response of /issueLinkType
type JiraLinkTypesResponse struct {
	IssueLinkTypes []JiraLinkType `json:"issueLinkTypes"`
}

// JiraComment represents a comment on a Jira issue
type JiraComment struct {
	ID      string    `json:"id,omitempty"`
	Body    string    `json:"body"`
	Author  *JiraUser `json:"author,omitempty"`
	Created string    `json:"created,omitempty"`
	Updated string    `json:"updated,omitempty"`
}

// JiraCommentsResponse represents the response of /issue/{key}/comment
type JiraCommentsResponse struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Comments   []JiraComment `json:"comments"`
}

// JiraTransition represents an available workflow transition
type JiraTransition struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	To   *JiraStatus `json:"to,omitempty"`
}

// JiraTransitionsResponse represents the response of /issue/{key}/transitions
type JiraTransitionsResponse struct {
	Transitions []JiraTransition `json:"transitions"`
}

// JiraSearchResponse represents the response from a Jira search
type JiraSearchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []JiraIssue `json:"issues"`
}

// JiraCreatedIssue represents the response of issue creation
type JiraCreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}
