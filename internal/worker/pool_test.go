package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

type memRepo struct {
	mu    sync.Mutex
	saved []string
	err   error
	block chan struct{}
}

func (r *memRepo) Save(ctx context.Context, m domain.Moodboard) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, m.ID)
	return nil
}

func (r *memRepo) GetByID(context.Context, string) (domain.Moodboard, error) {
	return domain.Moodboard{}, domain.ErrNotFound
}

func (r *memRepo) ListRecent(context.Context, int) ([]domain.Moodboard, error) {
	return nil, nil
}

func TestPool_PersistsRecordedMoodboards(t *testing.T) {
	repo := &memRepo{}
	p := NewPool(repo, 10)
	p.Start(2)

	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, p.Record(domain.Moodboard{ID: id}))
	}
	p.Stop()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, repo.saved)
}

func TestPool_SubmitDropsWhenFull(t *testing.T) {
	repo := &memRepo{block: make(chan struct{})}
	p := NewPool(repo, 1)
	p.Start(1)

	// The worker takes the first job and blocks; the second fills the queue.
	assert.True(t, p.Submit(Job{Moodboard: domain.Moodboard{ID: "1"}}))
	assert.Eventually(t, func() bool { return len(p.jobs) == 0 }, time.Second, time.Millisecond)
	assert.True(t, p.Submit(Job{Moodboard: domain.Moodboard{ID: "2"}}))
	assert.False(t, p.Submit(Job{Moodboard: domain.Moodboard{ID: "3"}}))

	close(repo.block)
	p.Stop()
	assert.Equal(t, []string{"1", "2"}, repo.saved)
}

func TestPool_StopIsIdempotentAndRejects(t *testing.T) {
	p := NewPool(&memRepo{}, 1)
	p.Start(1)
	p.Stop()
	p.Stop()

	assert.False(t, p.Record(domain.Moodboard{ID: "late"}))
}

func TestPool_SaveErrorIsLogged(t *testing.T) {
	repo := &memRepo{err: errors.New("disk full")}
	p := NewPool(repo, 1)
	p.Start(1)

	assert.True(t, p.Record(domain.Moodboard{ID: "x"}))
	assert.NotPanics(t, p.Stop)
	assert.Empty(t, repo.saved)
}
