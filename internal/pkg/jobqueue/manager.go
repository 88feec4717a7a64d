package jobqueue

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue             *Queue
	expirySweepTicker *time.Ticker
	stopCh            chan struct{}
	wg                sync.WaitGroup
	mu                sync.Mutex
	running           bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 3
		if v := os.Getenv("JOB_QUEUE_WORKERS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				workerCount = n
			}
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	sweepInterval := 15 * time.Minute
	if v := os.Getenv("EXPIRY_SWEEP_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sweepInterval = time.Duration(n) * time.Minute
		}
	}

	m.expirySweepTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.expirySweepWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.expirySweepTicker != nil {
		m.expirySweepTicker.Stop()
	}

	close(m.stopCh)
	m.wg.Wait()

	m.queue.Stop()
	m.running = false

	log.Info("[JobQueue Manager] Stopped")
}

// expirySweepWorker periodically enqueues a package expiry sweep. The first
// sweep runs immediately so restarts do not delay overdue expirations.
func (m *Manager) expirySweepWorker() {
	defer m.wg.Done()

	m.enqueueExpirySweep()

	for {
		select {
		case <-m.stopCh:
			return
		case <-m.expirySweepTicker.C:
			m.enqueueExpirySweep()
		}
	}
}

func (m *Manager) enqueueExpirySweep() {
	if _, err := m.queue.EnqueueJob(JobTypePackageExpirySweep, nil); err != nil {
		log.Errorf("[JobQueue Manager] Failed to enqueue expiry sweep: %v", err)
	}
}
