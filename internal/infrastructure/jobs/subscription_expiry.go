package jobs

import (
	"context"
	"log"
	"time"

	"bitwill.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// expiryRepository is the subset of subscription persistence the job needs
type expiryRepository interface {
	GetExpiredActive(ctx context.Context, limit int) ([]*entities.Subscription, error)
	ExpireSubscriptions(ctx context.Context, ids []uuid.UUID) error
}

// SubscriptionExpiryJob handles expiring lapsed subscriptions
type SubscriptionExpiryJob struct {
	repo     expiryRepository
	interval time.Duration
	stop     chan struct{}
}

func NewSubscriptionExpiryJob(repo expiryRepository) *SubscriptionExpiryJob {
	return &SubscriptionExpiryJob{
		repo:     repo,
		interval: time.Minute, // Check every minute
		stop:     make(chan struct{}),
	}
}

func (j *SubscriptionExpiryJob) Start(ctx context.Context) {
	log.Println("🕐 Starting subscription expiry job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Subscription expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Subscription expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredSubscriptions(ctx)
		}
	}
}

func (j *SubscriptionExpiryJob) Stop() {
	close(j.stop)
}

func (j *SubscriptionExpiryJob) processExpiredSubscriptions(ctx context.Context) {
	// Get active subscriptions whose period has lapsed
	expired, err := j.repo.GetExpiredActive(ctx, 100)
	if err != nil {
		log.Printf("❌ Error fetching expired subscriptions: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	log.Printf("🔄 Processing %d expired subscriptions...", len(expired))

	// Collect IDs
	var ids []uuid.UUID
	for _, sub := range expired {
		ids = append(ids, sub.ID)
	}

	// Mark as expired
	if err := j.repo.ExpireSubscriptions(ctx, ids); err != nil {
		log.Printf("❌ Error expiring subscriptions: %v", err)
		return
	}

	log.Printf("✅ Expired %d subscriptions", len(expired))
}
