package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"jira_mcp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "me@example.com", "secret")
}

func TestClient_GetIssue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PROJ-1", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "issuelinks")
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "secret", pass)

		_ = json.NewEncoder(w).Encode(model.JiraIssue{
			Key: "PROJ-1",
			Fields: model.JiraFields{
				Summary:   "First",
				Status:    &model.JiraStatus{Name: "To Do"},
				IssueType: &model.JiraIssueType{Name: "Story"},
			},
		})
	})

	issue, err := c.GetIssue(context.Background(), "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "First", issue.Fields.Summary)
	assert.Equal(t, "Story", issue.Fields.IssueType.Name)
}

func TestClient_BearerAuthWithoutEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pat-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"issueLinkTypes":[{"name":"Blocks","inward":"is blocked by","outward":"blocks"}]}`))
	}))
	defer srv.Close()

	types, err := NewClient(srv.URL, "", "pat-token").GetIssueLinkTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "blocks", types[0].Outward)
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	})

	_, err := c.GetIssue(context.Background(), "NOPE-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	err := c.DoTransition(context.Background(), "PROJ-1", "31")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "denied")
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", "", "").GetIssue(context.Background(), "PROJ-1")
	assert.Error(t, err)

	_, err = NewClient("https://jira.example.com", "", "").GetIssue(context.Background(), "PROJ-1")
	assert.Error(t, err)
}

func TestClient_SearchIssuesPages(t *testing.T) {
	const total = 150
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Equal(t, "project = PROJ", r.URL.Query().Get("jql"))
		start, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))

		var issues []model.JiraIssue
		for i := start; i < start+size && i < total; i++ {
			issues = append(issues, model.JiraIssue{Key: fmt.Sprintf("PROJ-%d", i)})
		}
		_ = json.NewEncoder(w).Encode(model.JiraSearchResponse{StartAt: start, MaxResults: size, Total: total, Issues: issues})
	})

	all, err := c.SearchIssues(context.Background(), "project = PROJ", 0)
	require.NoError(t, err)
	assert.Len(t, all, total)
	assert.Equal(t, 2, calls)

	limited, err := c.SearchIssues(context.Background(), "project = PROJ", 10)
	require.NoError(t, err)
	assert.Len(t, limited, 10)
}

func TestClient_TransitionAndComment(t *testing.T) {
	var gotTransition, gotComment map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch r.URL.Path {
		case "/rest/api/2/issue/S-1/transitions":
			assert.NoError(t, json.Unmarshal(body, &gotTransition))
			w.WriteHeader(http.StatusNoContent)
		case "/rest/api/2/issue/S-1/comment":
			assert.NoError(t, json.Unmarshal(body, &gotComment))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"100","body":"hello"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	require.NoError(t, c.DoTransition(context.Background(), "S-1", "21"))
	assert.Equal(t, map[string]any{"transition": map[string]any{"id": "21"}}, gotTransition)

	comment, err := c.AddComment(context.Background(), "S-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "100", comment.ID)
	assert.Equal(t, "hello", gotComment["body"])
}

func TestClient_CreateIssueLink(t *testing.T) {
	var got map[string]map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/2/issueLink", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.CreateIssueLink(context.Background(), "Blocks", "A-1", "B-2"))
	assert.Equal(t, "Blocks", got["type"]["name"])
	assert.Equal(t, "A-1", got["inwardIssue"]["key"])
	assert.Equal(t, "B-2", got["outwardIssue"]["key"])
}
