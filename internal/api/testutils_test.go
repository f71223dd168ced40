package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/glucolink/backend/config"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/testhelpers"
	"github.com/pageza/glucolink/backend/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:             config.Test,
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		ReportURLExpiry: 15 * time.Minute,
		LinkRateLimit:   10,
		LinkRateWindow:  time.Hour,
	}
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestAPI(t *testing.T, archive service.ReportArchive) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard, "json", 0)

	db := testhelpers.SetupTestDB(t)
	router := gin.New()
	SetupAPI(router, Dependencies{DB: db, Config: testConfig(), Archive: archive})
	return &testAPI{router: router, db: db}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type account struct {
	token  string
	userID uuid.UUID
}

func (a *testAPI) register(t *testing.T, email, fullName, role string) account {
	t.Helper()
	body := map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"full_name": fullName,
		"role":      role,
	}
	if role == "patient" {
		body["diabetes_type"] = "type1"
	}
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp types.AuthResponse
	decode(t, rec, &resp)
	return account{token: resp.Token, userID: resp.Profile.UserID}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	return body.Code
}

func stringsReader(s string) io.Reader {
	return bytes.NewBufferString(s)
}
