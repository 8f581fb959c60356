package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

const (
	// Shape of a secp256k1 private key; never a real secret.
	hexSecret = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	// Account addresses are public and must survive redaction.
	hexAddress = "0x1111111111111111111111111111111111111111"
)

func TestRedactingLogger_ScrubsKeyMaterial(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/analyze", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		"/analyze?key="+hexSecret+"&addr="+hexAddress, nil)
	req.Header.Set("X-Debug-Key", "0x"+hexSecret)
	req.Header.Set("Authorization", "Bearer super.secret.jwt")
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, hexSecret) {
		t.Fatalf("64-hex secret leaked to logs:\n%s", out)
	}
	if !strings.Contains(out, "[REDACTED:key]") {
		t.Fatalf("expected key redaction marker, got:\n%s", out)
	}
	if !strings.Contains(out, hexAddress) {
		t.Fatalf("public address should survive redaction, got:\n%s", out)
	}
	// Authorization is fully masked, never pattern-scrubbed.
	if strings.Contains(out, "super.secret.jwt") {
		t.Fatalf("authorization value leaked:\n%s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Fatalf("expected masked header marker, got:\n%s", out)
	}
}

func TestRedactingLogger_ScrubsBearerTokensInUnmaskedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/oracle", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oracle", nil)
	// A token smuggled through a header we do not mask outright.
	req.Header.Set("X-Forwarded-Auth", "Bearer abc-def.123")
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "abc-def.123") {
		t.Fatalf("bearer token leaked:\n%s", out)
	}
	if !strings.Contains(out, "[REDACTED:token]") {
		t.Fatalf("expected token redaction marker, got:\n%s", out)
	}
}

func TestRedactingLogger_MasksBuiltinAndCustomHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{" X-Internal-Token "}}))
	r.GET("/oracle", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oracle", nil)
	req.Header.Set("X-Api-Key", "apikey-12345")
	req.Header.Set("X-Internal-Token", "internal-67890")
	req.Header.Set("Cookie", "session=abcdef")
	r.ServeHTTP(w, req)

	out := buf.String()
	for _, leak := range []string{"apikey-12345", "internal-67890", "session=abcdef"} {
		if strings.Contains(out, leak) {
			t.Fatalf("sensitive header value %q leaked:\n%s", leak, out)
		}
	}
}

func TestRedactingLogger_LevelsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("expected info log for 200, got:\n%s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected warn log for 4xx, got:\n%s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("expected error log for 5xx, got:\n%s", out)
	}
}
