package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/repurpose_server/internal/pkg/jwt"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
	"github.com/qs3c/repurpose_server/internal/pkg/ws"
)

func TestWebSocketHandler_RejectsMissingToken(t *testing.T) {
	handler := NewWebSocketHandler(ws.NewHub(logging.Discard()), testJWTSecret, nil, logging.Discard())
	router := gin.New()
	router.GET("/ws", handler.Handle)

	w := doJSON(router, "GET", "/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "GET", "/ws?token=bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketHandler_PushesCreditUpdates(t *testing.T) {
	hub := ws.NewHub(logging.Discard())
	handler := NewWebSocketHandler(hub, testJWTSecret, nil, logging.Discard())
	router := gin.New()
	router.GET("/ws", handler.Handle)

	server := httptest.NewServer(router)
	defer server.Close()

	token, err := jwt.GenerateToken(55, testJWTSecret, 1)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsOnline(55) }, time.Second, 10*time.Millisecond)

	hub.ForwardCredits(&pubsub.CreditEvent{
		Type:    pubsub.EventCreditsUpdated,
		UserID:  55,
		Credits: 4,
		Delta:   -1,
		Reason:  pubsub.ReasonGeneration,
	})

	var msg struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, pubsub.EventCreditsUpdated, msg.Type)
	assert.Equal(t, float64(4), msg.Data["credits"])
	assert.Equal(t, "generation", msg.Data["reason"])
}
