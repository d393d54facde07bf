// Package jira is a small client for the Jira REST API v2. Version 2 is used
// because it takes and returns descriptions and comments as wiki markup.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jira_mcp/internal/model"
)

// ErrNotFound is returned when Jira answers 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer other than 404.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API returned %d: %s", e.StatusCode, e.Body)
}

// issueFields is the default set of fields requested for issues.
const issueFields = "summary,description,status,issuetype,project,parent,priority,assignee,reporter,labels,issuelinks,created,updated"

// Client provides HTTP access to a Jira instance.
type Client struct {
	URL        string
	Email      string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client. With an email the client uses basic
// auth (Jira Cloud API tokens); without one the token is sent as a bearer
// personal access token (Jira Server / Data Center).
func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(baseURL, "/"),
		Email:    email,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetIssue fetches a single issue by key (e.g. "PROJ-123"). An empty fields
// list requests the default set.
func (c *Client) GetIssue(ctx context.Context, key string, fields ...string) (*model.JiraIssue, error) {
	f := issueFields
	if len(fields) > 0 {
		f = strings.Join(fields, ",")
	}
	q := url.Values{"fields": {f}}

	var issue model.JiraIssue
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"?"+q.Encode(), nil, &issue); err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}
	return &issue, nil
}

// SearchIssues runs a JQL query. maxResults <= 0 pages through every match.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]model.JiraIssue, error) {
	var all []model.JiraIssue
	startAt := 0
	pageSize := 100
	if maxResults > 0 && maxResults < pageSize {
		pageSize = maxResults
	}

	for {
		q := url.Values{
			"jql":        {jql},
			"fields":     {issueFields},
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		var page model.JiraSearchResponse
		if err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}
		all = append(all, page.Issues...)

		if maxResults > 0 && len(all) >= maxResults {
			return all[:maxResults], nil
		}
		if len(page.Issues) == 0 || startAt+len(page.Issues) >= page.Total {
			return all, nil
		}
		startAt += len(page.Issues)
	}
}

// CreateIssue creates an issue from raw fields and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (*model.JiraCreatedIssue, error) {
	var created model.JiraCreatedIssue
	if err := c.do(ctx, http.MethodPost, "/issue", map[string]any{"fields": fields}, &created); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return &created, nil
}

// UpdateIssue sets fields on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	if err := c.do(ctx, http.MethodPut, "/issue/"+url.PathEscape(key), map[string]any{"fields": fields}, nil); err != nil {
		return fmt.Errorf("update issue %s: %w", key, err)
	}
	return nil
}

// DeleteIssue deletes an issue and, when subtasks is true, its subtasks.
func (c *Client) DeleteIssue(ctx context.Context, key string, subtasks bool) error {
	path := "/issue/" + url.PathEscape(key) + "?deleteSubtasks=" + strconv.FormatBool(subtasks)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete issue %s: %w", key, err)
	}
	return nil
}

// AddComment posts a wiki-markup comment.
func (c *Client) AddComment(ctx context.Context, key, body string) (*model.JiraComment, error) {
	var comment model.JiraComment
	if err := c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/comment", map[string]string{"body": body}, &comment); err != nil {
		return nil, fmt.Errorf("add comment to %s: %w", key, err)
	}
	return &comment, nil
}

// GetComments lists the comments of an issue.
func (c *Client) GetComments(ctx context.Context, key string) ([]model.JiraComment, error) {
	var resp model.JiraCommentsResponse
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/comment", nil, &resp); err != nil {
		return nil, fmt.Errorf("get comments of %s: %w", key, err)
	}
	return resp.Comments, nil
}

// GetTransitions lists the transitions available from the issue's current status.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]model.JiraTransition, error) {
	var resp model.JiraTransitionsResponse
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/transitions", nil, &resp); err != nil {
		return nil, fmt.Errorf("get transitions of %s: %w", key, err)
	}
	return resp.Transitions, nil
}

// DoTransition moves an issue through the workflow transition with id.
func (c *Client) DoTransition(ctx context.Context, key, transitionID string) error {
	payload := map[string]any{"transition": map[string]string{"id": transitionID}}
	if err := c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/transitions", payload, nil); err != nil {
		return fmt.Errorf("transition %s with %s: %w", key, transitionID, err)
	}
	return nil
}

// CreateIssueLink links inwardKey and outwardKey with the named link type
// (e.g. "Blocks", "Relates").
func (c *Client) CreateIssueLink(ctx context.Context, linkType, inwardKey, outwardKey string) error {
	payload := map[string]any{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  map[string]string{"key": inwardKey},
		"outwardIssue": map[string]string{"key": outwardKey},
	}
	if err := c.do(ctx, http.MethodPost, "/issueLink", payload, nil); err != nil {
		return fmt.Errorf("link %s and %s: %w", inwardKey, outwardKey, err)
	}
	return nil
}

// DeleteIssueLink removes a link by id.
func (c *Client) DeleteIssueLink(ctx context.Context, linkID string) error {
	if err := c.do(ctx, http.MethodDelete, "/issueLink/"+url.PathEscape(linkID), nil, nil); err != nil {
		return fmt.Errorf("delete link %s: %w", linkID, err)
	}
	return nil
}

// GetIssueLinkTypes lists the link types configured on the instance.
func (c *Client) GetIssueLinkTypes(ctx context.Context) ([]model.JiraLinkType, error) {
	var resp model.JiraLinkTypesResponse
	if err := c.do(ctx, http.MethodGet, "/issueLinkType", nil, &resp); err != nil {
		return nil, fmt.Errorf("get link types: %w", err)
	}
	return resp.IssueLinkTypes, nil
}

// do executes an authenticated request against /rest/api/2 and decodes the
// answer into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.URL == "" {
		return fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return fmt.Errorf("jira API token not configured")
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL+"/rest/api/2"+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jira-mcp/1.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode == http.StatusNoContent || out == nil || len(respBody) == 0:
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// setAuth sets the appropriate authentication header on the request.
func (c *Client) setAuth(req *http.Request) {
	if c.Email != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Email + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
}
