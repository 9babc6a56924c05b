// Package agenda partitions tasks into the today/upcoming/completed buckets
// and reconciles the persisted manual order against the live task set.
package agenda

import (
	"errors"
	"sort"

	"github.com/aevel/pland/internal/model"
)

type Bucket string

const (
	BucketToday     Bucket = "today"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

// Buckets is the grouped view of one task load. Group is pure: the same
// tasks and order always produce the same buckets, so the caller can rerun
// it after every reload without drift.
type Buckets struct {
	Today     []model.Task
	Upcoming  []model.Task
	Completed []model.Task
}

// Group partitions tasks by done state and due date, then applies the
// persisted order to the two open buckets. Order entries for unknown IDs
// are ignored; tasks missing from the order sort after all ordered ones,
// keeping their arrival order among themselves. Completed tasks ignore the
// manual order entirely and list most recently created first.
func Group(tasks []model.Task, order []string, todayKey string) Buckets {
	var b Buckets
	for _, task := range tasks {
		switch {
		case task.Done:
			b.Completed = append(b.Completed, task)
		case task.DueToday(todayKey):
			b.Today = append(b.Today, task)
		default:
			b.Upcoming = append(b.Upcoming, task)
		}
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	applyOrder(b.Today, rank)
	applyOrder(b.Upcoming, rank)

	sort.SliceStable(b.Completed, func(i, j int) bool {
		return b.Completed[i].CreatedAt.After(b.Completed[j].CreatedAt)
	})
	return b
}

// Bucket returns the named bucket's tasks.
func (b Buckets) Bucket(name Bucket) []model.Task {
	switch name {
	case BucketToday:
		return b.Today
	case BucketUpcoming:
		return b.Upcoming
	default:
		return b.Completed
	}
}

// IDs lists a bucket's task IDs in display order.
func (b Buckets) IDs(name Bucket) []string {
	tasks := b.Bucket(name)
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func applyOrder(tasks []model.Task, rank map[string]int) {
	// Unknown IDs take a rank past every listed one; stability preserves
	// their arrival order.
	sentinel := len(rank)
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, ok := rank[tasks[i].ID]
		if !ok {
			ri = sentinel
		}
		rj, ok := rank[tasks[j].ID]
		if !ok {
			rj = sentinel
		}
		return ri < rj
	})
}

var (
	ErrCrossBucketDrop = errors.New("agenda: cannot reorder across buckets")
	ErrCompletedDrop   = errors.New("agenda: completed tasks are not manually ordered")
	ErrUnknownTask     = errors.New("agenda: task not in bucket")
)

// Reorder computes the full persisted order after dragging task dragID onto
// task targetID inside bucket. The dragged ID is removed and reinserted at
// the target's position; the other open bucket and the completed bucket
// keep their sequences untouched, so every live task ID appears exactly
// once in the result.
func (b Buckets) Reorder(bucket Bucket, dragID, targetID string) ([]string, error) {
	if bucket == BucketCompleted {
		return nil, ErrCompletedDrop
	}
	ids := b.IDs(bucket)
	if indexOf(ids, dragID) < 0 || indexOf(ids, targetID) < 0 {
		return nil, ErrUnknownTask
	}

	reordered := moveBefore(ids, dragID, targetID)

	out := make([]string, 0, len(b.Today)+len(b.Upcoming)+len(b.Completed))
	if bucket == BucketToday {
		out = append(out, reordered...)
		out = append(out, b.IDs(BucketUpcoming)...)
	} else {
		out = append(out, b.IDs(BucketToday)...)
		out = append(out, reordered...)
	}
	out = append(out, b.IDs(BucketCompleted)...)
	return out, nil
}

// ReorderDrop validates a drop of dragID onto targetID and delegates to
// Reorder. Drops across buckets and drops into completed are rejected
// before any order is computed.
func (b Buckets) ReorderDrop(dragID, targetID string) ([]string, error) {
	from, ok := b.ContainsIn(dragID)
	if !ok {
		return nil, ErrUnknownTask
	}
	to, ok := b.ContainsIn(targetID)
	if !ok {
		return nil, ErrUnknownTask
	}
	if from != to {
		return nil, ErrCrossBucketDrop
	}
	return b.Reorder(from, dragID, targetID)
}

// ContainsIn reports which bucket holds the given task ID, if any.
func (b Buckets) ContainsIn(id string) (Bucket, bool) {
	for _, name := range []Bucket{BucketToday, BucketUpcoming, BucketCompleted} {
		if indexOf(b.IDs(name), id) >= 0 {
			return name, true
		}
	}
	return "", false
}

func moveBefore(ids []string, dragID, targetID string) []string {
	if dragID == targetID {
		out := make([]string, len(ids))
		copy(out, ids)
		return out
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != dragID {
			out = append(out, id)
		}
	}
	at := indexOf(out, targetID)
	out = append(out, "")
	copy(out[at+1:], out[at:])
	out[at] = dragID
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
