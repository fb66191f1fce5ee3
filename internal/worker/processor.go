package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qs3c/repurpose_server/internal/pkg/queue"
)

// 单个通知最多尝试次数
const maxAttempts = 3

var ErrUnknownKind = errors.New("unknown notification kind")

// Mailer email.Service 满足该接口
type Mailer interface {
	Enabled() bool
	SendWelcome(to, name string) error
	SendPaymentReceipt(to, name, orderID string, amount int64, currency string, credits int) error
}

// JobQueue queue.Queue 满足该接口
type JobQueue interface {
	Push(ctx context.Context, job *queue.NotificationJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.NotificationJob, error)
}

// Processor 通知任务处理器
type Processor struct {
	mailer Mailer
	queue  JobQueue
	logger *slog.Logger
}

// NewProcessor 创建通知处理器
func NewProcessor(mailer Mailer, jobQueue JobQueue, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		mailer: mailer,
		queue:  jobQueue,
		logger: logger.With("component", "worker"),
	}
}

// Process 发送一条通知，失败时按次数重新入队
func (p *Processor) Process(ctx context.Context, job *queue.NotificationJob) error {
	if !p.mailer.Enabled() {
		p.logger.Debug("smtp not configured, dropping job", "kind", job.Kind, "user_id", job.UserID)
		return nil
	}
	if job.Email == "" {
		return nil
	}

	err := p.send(job)
	if err == nil {
		p.logger.Info("notification sent", "kind", job.Kind, "user_id", job.UserID)
		return nil
	}
	if errors.Is(err, ErrUnknownKind) {
		return err
	}

	job.Attempt++
	if job.Attempt >= maxAttempts {
		return fmt.Errorf("giving up after %d attempts: %w", job.Attempt, err)
	}
	if pushErr := p.queue.Push(ctx, job); pushErr != nil {
		return fmt.Errorf("requeue failed: %v: %w", pushErr, err)
	}
	p.logger.Warn("notification failed, requeued", "kind", job.Kind, "user_id", job.UserID, "attempt", job.Attempt, "error", err)
	return nil
}

func (p *Processor) send(job *queue.NotificationJob) error {
	switch job.Kind {
	case queue.KindWelcome:
		return p.mailer.SendWelcome(job.Email, job.Name)
	case queue.KindPaymentReceipt:
		return p.mailer.SendPaymentReceipt(job.Email, job.Name, job.OrderID, job.Amount, job.Currency, job.Credits)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}
}

// Run 启动 workers 个消费协程，阻塞到 ctx 结束
func (p *Processor) Run(ctx context.Context, workers int, popTimeout time.Duration) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					p.logger.Info("worker shutting down", "worker_id", workerID)
					return
				}

				job, err := p.queue.Pop(ctx, popTimeout)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					p.logger.Error("pop job failed", "worker_id", workerID, "error", err)
					time.Sleep(time.Second)
					continue
				}
				if job == nil {
					continue // 超时，继续等待
				}

				if err := p.Process(ctx, job); err != nil {
					p.logger.Error("job failed", "worker_id", workerID, "kind", job.Kind, "user_id", job.UserID, "error", err)
				}
			}
		}(i)
	}
	wg.Wait()
}
