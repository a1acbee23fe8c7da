package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-planner-api/internal/auth"
)

func TestBearerCredential(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := BearerCredential(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func newAuthRouter(verifier auth.Verifier, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireAuth(verifier), func(c *gin.Context) {
		*reached = true
		ownerID, _ := GetOwnerID(c)
		c.JSON(http.StatusOK, gin.H{"owner": ownerID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	verifier := auth.NewJWTVerifier(auth.JWTConfig{SecretKey: "secret"})
	token, err := verifier.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantBody  string
		wantReach bool
	}{
		{"missing header", "", http.StatusUnauthorized, `{"error":"Authorization token required"}`, false},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized, `{"error":"Authorization token required"}`, false},
		{"bad token", "Bearer forged", http.StatusUnauthorized, `{"error":"Invalid authorization token"}`, false},
		{"valid", "Bearer " + token, http.StatusOK, `{"owner":"alice"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := newAuthRouter(verifier, &reached)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantReach, reached)
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/api/tasks/:id", RequireAuth(auth.InsecureHeaderVerifier{}), func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/42", nil)
	req.Header.Set("Authorization", "Bearer alice")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/tasks/:id", entry["path"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "alice", entry["owner_id"])
}
