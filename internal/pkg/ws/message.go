package ws

import (
	"encoding/json"

	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
)

// Message 推送给浏览器的一帧
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CreditsData credits_updated 消息体，前端据此刷新余额
type CreditsData struct {
	Credits int    `json:"credits"`
	Delta   int    `json:"delta"`
	Reason  string `json:"reason,omitempty"`
}

// NewCreditsMessage 把积分事件转成推送消息，事件未带类型时按 credits_updated 处理
func NewCreditsMessage(evt *pubsub.CreditEvent) *Message {
	msgType := evt.Type
	if msgType == "" {
		msgType = pubsub.EventCreditsUpdated
	}
	return &Message{
		Type: msgType,
		Data: CreditsData{
			Credits: evt.Credits,
			Delta:   evt.Delta,
			Reason:  evt.Reason,
		},
	}
}

func (m *Message) encode() ([]byte, error) {
	return json.Marshal(m)
}
