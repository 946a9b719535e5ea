package jobs

import (
	"log"
	"time"

	"worker-marketplace-server/services"
)

// TokenCleanupJob periodically deletes expired refresh tokens
type TokenCleanupJob struct {
	jwtService *services.JWTService
	interval   time.Duration
	stopChan   chan bool
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(jwtService *services.JWTService, interval time.Duration) *TokenCleanupJob {
	return &TokenCleanupJob{
		jwtService: jwtService,
		interval:   interval,
		stopChan:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Token cleanup job started")
}

// Stop stops the cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Token cleanup job stopped")
}

// run executes the cleanup loop
func (j *TokenCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		case <-j.stopChan:
			return
		}
	}
}
