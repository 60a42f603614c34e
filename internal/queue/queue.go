package queue

import (
	"sync"

	"server/internal/domain"
)

// Queue is an unbounded, strictly FIFO, in-process job queue. Enqueue never
// blocks. Jobs are held only in memory; a process crash drops whatever is
// queued or in flight.
type Queue struct {
	mu     sync.Mutex
	ready  *sync.Cond
	jobs   []domain.ProcessingJob
	closed bool
}

func New() *Queue {
	q := &Queue{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a job. Enqueueing after Close is a no-op.
func (q *Queue) Enqueue(job domain.ProcessingJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.jobs = append(q.jobs, job)
	q.ready.Signal()
}

// Take blocks until a job is available or the queue is closed. The second
// return value is false once the queue is closed and drained.
func (q *Queue) Take() (domain.ProcessingJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) == 0 {
		if q.closed {
			return domain.ProcessingJob{}, false
		}
		q.ready.Wait()
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// Len reports the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close stops the queue and unblocks any waiting consumer.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.ready.Broadcast()
}
