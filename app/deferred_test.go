package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type removeRecorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRemoveRecorder() *removeRecorder {
	return &removeRecorder{done: make(chan struct{}, 16)}
}

func (r *removeRecorder) remove(_ context.Context, _ models.Collection, id, _ string) (bool, error) {
	r.mu.Lock()
	r.calls = append(r.calls, id)
	r.mu.Unlock()
	r.done <- struct{}{}
	return true, nil
}

func (r *removeRecorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDeferrerRunsAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rec := newRemoveRecorder()
	d := NewDeferrer(rec.remove, nil)

	token := d.Schedule(models.CollectionTasks, "t1", "u1", 10*time.Millisecond)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, d.Pending())

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred delete never ran")
	}
	d.Flush(context.Background())

	assert.Equal(t, []string{"t1"}, rec.ids())
	assert.Zero(t, d.Pending())
	assert.False(t, d.Undo(token, "u1"), "too late to undo")
}

func TestDeferrerUndo(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rec := newRemoveRecorder()
	d := NewDeferrer(rec.remove, nil)

	token := d.Schedule(models.CollectionTasks, "t1", "u1", 50*time.Millisecond)
	assert.False(t, d.Undo(token, "u2"), "other users cannot undo")
	require.True(t, d.Undo(token, "u1"))
	assert.False(t, d.Undo(token, "u1"))
	assert.False(t, d.Undo("unknown", "u1"))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.ids())
}

func TestDeferrerFlushRunsPending(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rec := newRemoveRecorder()
	d := NewDeferrer(rec.remove, nil)

	d.Schedule(models.CollectionTasks, "a", "u1", time.Hour)
	d.Schedule(models.CollectionDreams, "b", "u1", time.Hour)
	undone := d.Schedule(models.CollectionDreams, "c", "u1", time.Hour)
	require.True(t, d.Undo(undone, "u1"))

	d.Flush(context.Background())

	assert.ElementsMatch(t, []string{"a", "b"}, rec.ids())
	assert.Zero(t, d.Pending())
}

func TestCascadingRemove(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "u1")
	ctx := context.Background()

	d := NewDeferrer(CascadingRemove(svc, nil), nil)
	d.Schedule(models.CollectionPeople, "alice", "u1", time.Hour)
	d.Flush(ctx)

	stored := svc.LoadData(ctx, "u1")
	assert.Len(t, stored.People, 1)
	assert.Equal(t, []string{"Bob"}, names(stored.Tasks[0]))
}
