package workflow

import (
	"context"
	"errors"
	"fmt"
)

var errBoom = errors.New("boom")

// fakeTracker is an in-memory Tracker. Tasks are linked to stories through
// links; children are items whose ParentKey matches.
type fakeTracker struct {
	items       map[string]WorkItem
	order       []string
	links       map[string][]string
	failLinks   map[string]bool
	failComment map[string]bool
	failTrans   map[string]bool

	transitions []string
	comments    map[string][]string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		items:       map[string]WorkItem{},
		links:       map[string][]string{},
		failLinks:   map[string]bool{},
		failComment: map[string]bool{},
		failTrans:   map[string]bool{},
		comments:    map[string][]string{},
	}
}

func (f *fakeTracker) add(item WorkItem) *fakeTracker {
	f.items[item.Key] = item
	f.order = append(f.order, item.Key)
	return f
}

func (f *fakeTracker) link(from string, to ...string) *fakeTracker {
	f.links[from] = append(f.links[from], to...)
	return f
}

func (f *fakeTracker) Item(_ context.Context, key string) (WorkItem, error) {
	item, ok := f.items[key]
	if !ok {
		return WorkItem{}, fmt.Errorf("issue %s: not found", key)
	}
	return item, nil
}

func (f *fakeTracker) Children(_ context.Context, parentKey string) ([]WorkItem, error) {
	var out []WorkItem
	for _, key := range f.order {
		if f.items[key].ParentKey == parentKey {
			out = append(out, f.items[key])
		}
	}
	return out, nil
}

func (f *fakeTracker) Links(_ context.Context, key string) ([]Link, error) {
	if f.failLinks[key] {
		return nil, errBoom
	}
	var out []Link
	for i, to := range f.links[key] {
		out = append(out, Link{
			ID:        fmt.Sprintf("%s-%d", key, i),
			Type:      LinkType{Name: "Relates", Inward: "relates to", Outward: "relates to"},
			Direction: LinkOutward,
			Issue:     f.items[to],
		})
	}
	return out, nil
}

func (f *fakeTracker) Transition(_ context.Context, key, transitionID string) error {
	if f.failTrans[key] {
		return errBoom
	}
	f.transitions = append(f.transitions, key+":"+transitionID)
	return nil
}

func (f *fakeTracker) Comment(_ context.Context, key, body string) error {
	if f.failComment[key] {
		return errBoom
	}
	f.comments[key] = append(f.comments[key], body)
	return nil
}

func task(key string, status Status) WorkItem {
	return WorkItem{Key: key, Summary: "task " + key, Status: status, IssueType: IssueTypeTask}
}

func story(key, epic string, status Status) WorkItem {
	return WorkItem{Key: key, Summary: "story " + key, Status: status, IssueType: IssueTypeStory, ParentKey: epic}
}

func epic(key string) WorkItem {
	return WorkItem{Key: key, Summary: "epic " + key, Status: StatusToDo, IssueType: IssueTypeEpic}
}
