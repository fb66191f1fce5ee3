package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/service"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

func setupIntegrationRouter(t *testing.T, db *gorm.DB, userID int64) *gin.Engine {
	t.Helper()

	svc := service.NewIntegrationService(repository.NewLinkedAccountRepository(db), nil, nil, nil, logging.Discard())
	handler := NewIntegrationHandler(svc, "")

	router := gin.New()
	router.Use(mockAuth(userID))
	router.GET("/integrations/twitter/connect", handler.Connect)
	router.POST("/integrations/twitter/post", handler.Post)
	router.DELETE("/integrations/twitter", handler.Unlink)
	return router
}

func TestIntegrationHandler_Post_NotLinked(t *testing.T) {
	db := setupDB(t)
	user := testutil.TestUser(t, db)

	w := doJSON(setupIntegrationRouter(t, db, user.ID), "POST", "/integrations/twitter/post", map[string]string{"text": "hello"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Twitter account not connected. Please connect your Twitter account in Settings.", parseResponse(t, w).Message)
}

func TestIntegrationHandler_Post_EmptyText(t *testing.T) {
	db := setupDB(t)
	user := testutil.TestUser(t, db)

	w := doJSON(setupIntegrationRouter(t, db, user.ID), "POST", "/integrations/twitter/post", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntegrationHandler_Connect_Disabled(t *testing.T) {
	db := setupDB(t)
	user := testutil.TestUser(t, db)

	w := doJSON(setupIntegrationRouter(t, db, user.ID), "GET", "/integrations/twitter/connect", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIntegrationHandler_Unlink(t *testing.T) {
	db := setupDB(t)
	user := testutil.TestUser(t, db)
	testutil.TestLinkedAccount(t, db, user.ID)
	router := setupIntegrationRouter(t, db, user.ID)

	w := doJSON(router, "DELETE", "/integrations/twitter", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/integrations/twitter", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
