// Package worker provides background persistence of generated moodboards.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const saveTimeout = 5 * time.Second

var _ ports.MoodboardRecorder = (*Pool)(nil)

// Job is one moodboard waiting to be written to history.
type Job struct {
	Moodboard domain.Moodboard
}

// Pool manages background workers for async jobs.
type Pool struct {
	repo ports.MoodboardRepository
	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a worker pool with the given queue size.
func NewPool(repo ports.MoodboardRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{repo: repo, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to finish. It is safe to
// call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full or the pool is stopped.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		log.Warn().Str("id", job.Moodboard.ID).Msg("worker: dropping job, queue full")
		return false
	}
}

// Record queues m for persistence.
func (p *Pool) Record(m domain.Moodboard) bool {
	return p.Submit(Job{Moodboard: m})
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.repo.Save(ctx, job.Moodboard); err != nil {
		log.Warn().Err(err).Str("id", job.Moodboard.ID).Msg("worker: failed to save moodboard")
		return
	}
	log.Debug().Str("id", job.Moodboard.ID).Str("title", job.Moodboard.Title).Msg("worker: moodboard saved")
}
