package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docsEngine(t *testing.T, cfg DocsAccessConfig, authenticate gin.HandlerFunc) *gin.Engine {
	t.Helper()
	guard, err := DocsAccess(cfg, authenticate)
	require.NoError(t, err)
	engine := gin.New()
	engine.GET("/swagger/*any", guard, okHandler)
	return engine
}

func docsFrom(engine *gin.Engine, remote string) int {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestDocsAccess_AllowList(t *testing.T) {
	engine := docsEngine(t, DocsAccessConfig{AllowedIPs: []string{"10.20.0.0/16", "192.168.1.7", " ::1 "}}, nil)

	assert.Equal(t, http.StatusOK, docsFrom(engine, "10.20.3.4:4000"))
	assert.Equal(t, http.StatusOK, docsFrom(engine, "192.168.1.7:4000"))
	assert.Equal(t, http.StatusOK, docsFrom(engine, "[::1]:4000"))
	assert.Equal(t, http.StatusForbidden, docsFrom(engine, "192.168.1.8:4000"))
	assert.Equal(t, http.StatusForbidden, docsFrom(engine, "10.21.0.1:4000"))
}

func TestDocsAccess_OpenWithoutList(t *testing.T) {
	assert.Equal(t, http.StatusOK, docsFrom(docsEngine(t, DocsAccessConfig{}, nil), "203.0.113.9:1"))
}

func TestDocsAccess_RequireAuth(t *testing.T) {
	calls := 0
	deny := func(c *gin.Context) {
		calls++
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	engine := docsEngine(t, DocsAccessConfig{RequireAuth: true, AllowedIPs: []string{"10.0.0.0/8"}}, deny)
	assert.Equal(t, http.StatusForbidden, docsFrom(engine, "172.16.0.1:1"))
	assert.Zero(t, calls, "IP check runs before authentication")
	assert.Equal(t, http.StatusUnauthorized, docsFrom(engine, "10.1.1.1:1"))
	assert.Equal(t, 1, calls)

	assert.Equal(t, http.StatusOK, docsFrom(docsEngine(t, DocsAccessConfig{}, deny), "10.1.1.1:1"),
		"authentication only runs when required")
}

func TestDocsAccess_RejectsMalformedEntries(t *testing.T) {
	_, err := DocsAccess(DocsAccessConfig{AllowedIPs: []string{"10.0.0.0/33"}}, nil)
	assert.Error(t, err)
	_, err = DocsAccess(DocsAccessConfig{AllowedIPs: []string{"intranet"}}, nil)
	assert.Error(t, err)
}
