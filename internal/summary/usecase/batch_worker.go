package usecase

import (
	"log"
	"sync"

	"github.com/seeya29/SmartBrief/internal/summary/domain"
)

// BatchWorkerService processes summarize payloads in the background for the
// batch endpoint. Each job runs the same pipeline as a direct summarize
// call, so results land in the store with identical semantics.
type BatchWorkerService struct {
	usecase     SummaryUsecase
	jobQueue    chan domain.MessagePayload
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

// NewBatchWorkerService creates a worker pool over the given usecase.
func NewBatchWorkerService(uc SummaryUsecase, workerCount int) *BatchWorkerService {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &BatchWorkerService{
		usecase:     uc,
		jobQueue:    make(chan domain.MessagePayload, 500),
		workerCount: workerCount,
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (s *BatchWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	log.Printf("[SummaryWorker] Started %d workers", s.workerCount)
}

// Stop drains the queue and waits for all workers to exit.
func (s *BatchWorkerService) Stop() {
	close(s.jobQueue)
	s.workerWg.Wait()
	log.Println("[SummaryWorker] All workers stopped")
}

func (s *BatchWorkerService) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		if _, err := s.usecase.Summarize(job); err != nil {
			log.Printf("[SummaryWorker] summarize %s/%s failed: %v", job.UserID, job.MessageID, err)
		}
	}

	log.Printf("[SummaryWorker] Worker %d stopped", id)
}

// QueueJob adds a payload to the queue without blocking; it reports false
// when the queue is full.
func (s *BatchWorkerService) QueueJob(payload domain.MessagePayload) bool {
	select {
	case s.jobQueue <- payload:
		return true
	default:
		return false
	}
}
