package jobs

import (
	"log"
	"time"

	"github.com/recipehub/recipebot-backend/internal/services"
)

// CleanupJob periodically expires idle dialog sessions when a TTL is
// configured. With a zero TTL the job never starts and abandoned sessions
// stay resident, which is the default behavior.
type CleanupJob struct {
	sessions *services.SessionManager
	ttl      time.Duration
	stop     chan struct{}
}

// NewCleanupJob creates a new session cleanup job
func NewCleanupJob(sessions *services.SessionManager, ttl time.Duration) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep. No-op when idle expiry is disabled.
func (j *CleanupJob) Start() {
	if j.ttl <= 0 {
		log.Println("Session idle expiry disabled")
		return
	}

	log.Printf("Session idle expiry enabled (TTL %v)", j.ttl)
	go j.run()
}

// Stop halts the sweep
func (j *CleanupJob) Stop() {
	close(j.stop)
}

// sweepInterval keeps the sweep frequent enough for short TTLs: a session
// must never outlive its TTL by more than one sweep period.
func (j *CleanupJob) sweepInterval() time.Duration {
	const defaultInterval = 5 * time.Minute
	if j.ttl < defaultInterval {
		return j.ttl
	}
	return defaultInterval
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sessions.ExpireIdle(j.ttl)
		case <-j.stop:
			return
		}
	}
}
