// ABOUTME: Undo-window deletes: a delete runs after a delay unless it is undone first
// ABOUTME: Pending deletes are executed, not dropped, when the deferrer is flushed on shutdown
package app

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// RemoveFunc deletes one record.
type RemoveFunc func(ctx context.Context, c models.Collection, id, userID string) (bool, error)

// CascadingRemove deletes through a fresh State so person deletes still
// strip the person from tasks.
func CascadingRemove(svc *data.Service, log *zap.SugaredLogger) RemoveFunc {
	return func(ctx context.Context, c models.Collection, id, userID string) (bool, error) {
		st := NewState(svc, userID, log)
		st.Load(ctx)
		return st.Delete(ctx, c, id)
	}
}

type pendingDelete struct {
	timer      *time.Timer
	collection models.Collection
	id         string
	userID     string
}

// Deferrer schedules cancellable deletes.
type Deferrer struct {
	remove RemoveFunc
	log    *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]*pendingDelete
	running sync.WaitGroup
}

func NewDeferrer(remove RemoveFunc, log *zap.SugaredLogger) *Deferrer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Deferrer{
		remove:  remove,
		log:     log,
		pending: make(map[string]*pendingDelete),
	}
}

// Schedule queues a delete to run after delay and returns its undo token.
func (d *Deferrer) Schedule(c models.Collection, id, userID string, delay time.Duration) string {
	token := ulid.Make().String()
	p := &pendingDelete{collection: c, id: id, userID: userID}

	d.mu.Lock()
	d.pending[token] = p
	p.timer = time.AfterFunc(delay, func() { d.fire(token) })
	d.mu.Unlock()

	d.log.Debugw("delete scheduled", "token", token, "collection", c, "id", id, "delay", delay)
	return token
}

// Undo cancels a pending delete scheduled by userID. It returns false when
// the delete already ran, the token is unknown, or it belongs to another user.
func (d *Deferrer) Undo(token, userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[token]
	if !ok || models.Namespace(p.userID) != models.Namespace(userID) {
		return false
	}
	delete(d.pending, token)
	p.timer.Stop()
	return true
}

// Pending returns the number of deletes waiting for their timer.
func (d *Deferrer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// take claims a pending delete so exactly one of fire, Undo, or Flush
// handles it.
func (d *Deferrer) take(token string) (*pendingDelete, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[token]
	if ok {
		delete(d.pending, token)
		d.running.Add(1)
	}
	return p, ok
}

func (d *Deferrer) fire(token string) {
	p, ok := d.take(token)
	if !ok {
		return
	}
	d.run(context.Background(), token, p)
}

func (d *Deferrer) run(ctx context.Context, token string, p *pendingDelete) {
	defer d.running.Done()
	if _, err := d.remove(ctx, p.collection, p.id, p.userID); err != nil {
		d.log.Errorw("deferred delete failed", "token", token, "collection", p.collection, "id", p.id, "error", err)
	}
}

// Flush runs every pending delete immediately and waits for deletes whose
// timers already fired.
func (d *Deferrer) Flush(ctx context.Context) {
	d.mu.Lock()
	tokens := make([]string, 0, len(d.pending))
	for token, p := range d.pending {
		p.timer.Stop()
		tokens = append(tokens, token)
	}
	d.mu.Unlock()

	for _, token := range tokens {
		if p, ok := d.take(token); ok {
			d.run(ctx, token, p)
		}
	}
	d.running.Wait()
}
