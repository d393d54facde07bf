package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasks(statuses ...Status) []WorkItem {
	out := make([]WorkItem, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, task(string(rune('A'+i)), s))
	}
	return out
}

func TestAnalyze_NoChildren(t *testing.T) {
	a := Analyze(story("S-1", "E-1", StatusToDo), nil)

	assert.Equal(t, ChildSummary{}, a.ChildSummary)
	assert.False(t, a.ShouldBeDone)
	assert.False(t, a.ShouldBeInProgress)
	assert.Nil(t, a.RecommendedTransition)
}

func TestAnalyze_AllDone(t *testing.T) {
	a := Analyze(story("S-1", "E-1", StatusInProgress), tasks(StatusDone, StatusDone, StatusDone))

	assert.True(t, a.ShouldBeDone)
	assert.False(t, a.ShouldBeInProgress)
	require.NotNil(t, a.RecommendedTransition)
	assert.Equal(t, "31", a.RecommendedTransition.ID)
	assert.Equal(t, StatusDone, a.RecommendedTransition.Name)
	assert.Equal(t, "All 3 related tasks are completed", a.RecommendedTransition.Reason)
}

func TestAnalyze_OneInProgressRestToDo(t *testing.T) {
	a := Analyze(story("S-1", "E-1", StatusToDo), tasks(StatusInProgress, StatusToDo, StatusToDo))

	assert.True(t, a.ShouldBeInProgress)
	assert.False(t, a.ShouldBeDone)
	require.NotNil(t, a.RecommendedTransition)
	assert.Equal(t, "21", a.RecommendedTransition.ID)
	assert.Equal(t, "1 of 3 tasks are started/completed", a.RecommendedTransition.Reason)
}

func TestAnalyze_AllToDo(t *testing.T) {
	a := Analyze(story("S-1", "E-1", StatusToDo), tasks(StatusToDo, StatusToDo))

	assert.False(t, a.ShouldBeDone)
	assert.False(t, a.ShouldBeInProgress)
	assert.Nil(t, a.RecommendedTransition)
}

func TestAnalyze_UnrecognizedStatusCountsOnlyInTotal(t *testing.T) {
	a := Analyze(story("S-1", "E-1", StatusToDo), tasks(StatusDone, "Blocked", "In Review"))

	assert.Equal(t, ChildSummary{Total: 3, Done: 1}, a.ChildSummary)
	assert.False(t, a.ShouldBeDone)
	assert.True(t, a.ShouldBeInProgress)
}

func TestAnalyze_IgnoresNonTaskChildren(t *testing.T) {
	children := []WorkItem{
		task("T-1", StatusDone),
		{Key: "B-1", Status: StatusToDo, IssueType: IssueTypeBug},
		{Key: "T-2", Status: StatusToDo, IssueType: "task"},
	}

	a := Analyze(story("S-1", "E-1", StatusInProgress), children)

	assert.Equal(t, ChildSummary{Total: 1, Done: 1}, a.ChildSummary)
	assert.True(t, a.ShouldBeDone)
}

func TestAnalyze_BucketInvariant(t *testing.T) {
	all := []Status{StatusToDo, StatusInProgress, StatusDone, "Blocked", ""}
	for _, a := range all {
		for _, b := range all {
			for _, c := range all {
				an := Analyze(story("S", "E", StatusToDo), tasks(a, b, c))
				s := an.ChildSummary
				assert.LessOrEqual(t, s.Done+s.InProgress+s.ToDo, s.Total)
				assert.False(t, an.ShouldBeDone && an.ShouldBeInProgress, "%v %v %v", a, b, c)
			}
		}
	}
}

func TestRecommendTransition_ParentDoneNeverMoves(t *testing.T) {
	parent := story("S-1", "E-1", StatusDone)
	for _, children := range [][]WorkItem{
		nil,
		tasks(StatusDone),
		tasks(StatusInProgress),
		tasks(StatusToDo, StatusToDo),
	} {
		a := Analyze(parent, children)
		assert.Nil(t, RecommendTransition(parent, a))
	}
}

func TestRecommendTransition_InProgressNeverMovesBack(t *testing.T) {
	parent := story("S-1", "E-1", StatusInProgress)

	a := Analyze(parent, tasks(StatusInProgress, StatusToDo))
	assert.True(t, a.ShouldBeInProgress)
	assert.Nil(t, RecommendTransition(parent, a))

	a = Analyze(parent, tasks(StatusToDo))
	assert.Nil(t, RecommendTransition(parent, a))
}

func TestRecommendTransition_CustomIDs(t *testing.T) {
	ids := TransitionIDs{InProgress: "4", Done: "5"}
	parent := story("S-1", "E-1", StatusToDo)

	rec := ids.Recommend(parent, ids.Analyze(parent, tasks(StatusDone)))
	require.NotNil(t, rec)
	assert.Equal(t, "5", rec.ID)

	rec = ids.Recommend(parent, ids.Analyze(parent, tasks(StatusDone, StatusToDo)))
	require.NotNil(t, rec)
	assert.Equal(t, "4", rec.ID)
}

func TestBuildAuditComment(t *testing.T) {
	got := BuildAuditComment(StatusToDo, StatusInProgress, "1 of 2 tasks are started/completed",
		ChildSummary{Total: 2, Done: 1, ToDo: 1})

	want := "h3. Automatic status update\n\n" +
		"*Previous status:* To Do\n" +
		"*New status:* In Progress\n" +
		"*Reason:* 1 of 2 tasks are started/completed\n\n" +
		"*Task summary:*\n" +
		"* Total: 2\n" +
		"* Done: 1\n" +
		"* In Progress: 0\n" +
		"* To Do: 1"
	assert.Equal(t, want, got)
}
