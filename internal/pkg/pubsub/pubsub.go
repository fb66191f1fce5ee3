package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelCreditUpdates = "credit_updates"

	EventCreditsUpdated = "credits_updated"
)

// 积分变动原因
const (
	ReasonSignup     = "signup"
	ReasonGeneration = "generation"
	ReasonRefund     = "refund"
	ReasonPurchase   = "purchase"
)

// CreditEvent 积分变动消息
type CreditEvent struct {
	Type    string `json:"type"`
	UserID  int64  `json:"userId"`
	Credits int    `json:"credits"`
	Delta   int    `json:"delta"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishCredits 发布积分变动
func (p *Publisher) PublishCredits(ctx context.Context, evt *CreditEvent) error {
	if evt.Type == "" {
		evt.Type = EventCreditsUpdated
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal credit event: %w", err)
	}

	return p.client.Publish(ctx, ChannelCreditUpdates, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅积分变动，阻塞直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*CreditEvent)) error {
	sub := s.client.Subscribe(ctx, ChannelCreditUpdates)
	defer sub.Close()

	// 等待订阅确认，保证返回前的发布不会丢失
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ChannelCreditUpdates, err)
	}

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var evt CreditEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue // 忽略解析错误
			}

			handler(&evt)
		}
	}
}
