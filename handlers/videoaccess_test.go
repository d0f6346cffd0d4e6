package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"holistic/models"
	"holistic/services/videoaccess"

	"github.com/gin-gonic/gin"
)

type fakeAccessService struct {
	issueErr     error
	verifyResult *videoaccess.VerifyResult
	lastToken    string
}

func (f *fakeAccessService) IssueToken(ctx context.Context, userID, sessionID string, meta videoaccess.RequestMeta) (*videoaccess.AccessGrant, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return &videoaccess.AccessGrant{
		Session: models.SessionSummary{ID: sessionID, Title: "Yoga du matin"},
		User:    models.UserSummary{ID: userID, FullName: "Yasmine"},
		Token:   "signed-token",
		Expires: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAccessService) VerifyToken(ctx context.Context, token string, meta videoaccess.RequestMeta) (*videoaccess.VerifyResult, error) {
	f.lastToken = token
	return f.verifyResult, nil
}

func (f *fakeAccessService) ReportLeave(ctx context.Context, userID, sessionID string, meta videoaccess.RequestMeta) error {
	return nil
}

func (f *fakeAccessService) GetSessionLogs(ctx context.Context, requesterID, requesterRole, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	return nil, nil
}

func newAccessRouter(svc videoaccess.AccessService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewVideoAccessHandler(svc)

	authed := r.Group("/api", func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", models.RoleClient)
	})
	authed.GET("/sessions/:id/video-access", h.VideoAccessHandler)
	authed.POST("/sessions/:id/video-leave", h.VideoLeaveHandler)
	r.POST("/api/sessions/video-verify-token", h.VerifyTokenHandler)
	return r
}

func TestVideoAccessHandlerGrantShape(t *testing.T) {
	router := newAccessRouter(&fakeAccessService{}, "client-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1/video-access", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	for _, key := range []string{"success", "session", "user", "videoAccessToken", "expiresAt"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q field", key)
		}
	}
}

func TestVideoAccessHandlerDenied(t *testing.T) {
	router := newAccessRouter(&fakeAccessService{issueErr: videoaccess.ErrAccessDenied}, "client-2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1/video-access", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Success || body.Message != "Accès sécurisé refusé" {
		t.Errorf("unexpected denial body: %+v", body)
	}
}

func TestVideoAccessHandlerUnknownSession(t *testing.T) {
	router := newAccessRouter(&fakeAccessService{issueErr: videoaccess.ErrSessionNotFound}, "client-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing/video-access", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestVerifyTokenHandlerPassesResultThrough(t *testing.T) {
	// Verification failures are still HTTP 200: the payload carries the verdict.
	svc := &fakeAccessService{verifyResult: &videoaccess.VerifyResult{
		Success: false,
		Message: "La séance n'est plus active",
	}}
	router := newAccessRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/video-verify-token",
		strings.NewReader(`{"videoAccessToken":"stale-token"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastToken != "stale-token" {
		t.Errorf("handler did not pass the token through, got %q", svc.lastToken)
	}
	var body videoaccess.VerifyResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Success || body.Message != "La séance n'est plus active" {
		t.Errorf("unexpected verify body: %+v", body)
	}
}

func TestVerifyTokenHandlerRequiresToken(t *testing.T) {
	router := newAccessRouter(&fakeAccessService{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/video-verify-token",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing token, got %d", w.Code)
	}
}

func TestVideoLeaveHandler(t *testing.T) {
	router := newAccessRouter(&fakeAccessService{}, "client-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/sess-1/video-leave", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
