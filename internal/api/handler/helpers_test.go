package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/service"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key-for-handlers"

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.ExpireHours = 24
	return cfg
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return db
}

func newCreditService(db *gorm.DB) *service.CreditService {
	return service.NewCreditService(repository.NewUserRepository(db), repository.NewCreditRepository(db), nil, logging.Discard())
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", resp.Data)
	return data
}
