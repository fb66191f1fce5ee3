package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
	"github.com/qs3c/repurpose_server/internal/pkg/queue"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []*queue.NotificationJob
}

func (f *fakeNotifier) Push(ctx context.Context, job *queue.NotificationJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeNotifier) Jobs() []*queue.NotificationJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*queue.NotificationJob(nil), f.jobs...)
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*pubsub.CreditEvent
}

func (f *fakeEvents) PublishCredits(ctx context.Context, evt *pubsub.CreditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeEvents) Reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Reason)
	}
	return out
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.JWT.Secret = "test-secret-key-for-testing"
	cfg.JWT.ExpireHours = 24
	return cfg
}

func testLogger() *slog.Logger {
	return logging.Discard()
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return db
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newCreditService(db *gorm.DB, events CreditEvents) *CreditService {
	return NewCreditService(repository.NewUserRepository(db), repository.NewCreditRepository(db), events, testLogger())
}
