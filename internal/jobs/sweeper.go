package jobs

import (
	"log"
	"time"

	"github.com/ecert-oman/ecert-backend/internal/storage"
)

// SweeperJob periodically reclaims idle sessions and abandoned pending
// payments.
type SweeperJob struct {
	store             storage.Store
	interval          time.Duration
	sessionMaxIdle    time.Duration
	pendingPaymentTTL time.Duration
	stop              chan struct{}
	isRunning         bool
}

// NewSweeperJob creates the sweep scheduler.
func NewSweeperJob(store storage.Store, interval, sessionMaxIdle, pendingPaymentTTL time.Duration) *SweeperJob {
	return &SweeperJob{
		store:             store,
		interval:          interval,
		sessionMaxIdle:    sessionMaxIdle,
		pendingPaymentTTL: pendingPaymentTTL,
		stop:              make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *SweeperJob) Start() {
	if s.isRunning {
		log.Println("Sweeper job already running")
		return
	}
	s.isRunning = true

	log.Printf("Starting sweep job: every %v, session idle %v, payment TTL %v",
		s.interval, s.sessionMaxIdle, s.pendingPaymentTTL)

	go s.run()
}

// Stop halts the sweep loop
func (s *SweeperJob) Stop() {
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stop)
	log.Println("Stopping sweep job...")
}

func (s *SweeperJob) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *SweeperJob) sweep() {
	removed, err := s.store.SweepIdleSessions(s.sessionMaxIdle)
	if err != nil {
		log.Printf("Session sweep failed: %v", err)
	} else if removed > 0 {
		log.Printf("Swept %d idle session(s)", removed)
	}

	expired, err := s.store.SweepExpiredPayments(s.pendingPaymentTTL)
	if err != nil {
		log.Printf("Pending payment sweep failed: %v", err)
	} else if expired > 0 {
		log.Printf("Swept %d abandoned pending payment(s)", expired)
	}
}
