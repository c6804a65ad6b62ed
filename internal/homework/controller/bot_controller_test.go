package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hwbot/internal/common/http/middleware"
	"hwbot/internal/homework/controller"
	"hwbot/internal/homework/model"
	pkgerrors "hwbot/pkg/errors"

	"github.com/gin-gonic/gin"
)

type fakeStatus struct {
	state     model.PollState
	items     []model.Delivery
	err       error
	lastLimit int
}

func (f *fakeStatus) State() model.PollState { return f.state }

func (f *fakeStatus) Recent(_ context.Context, limit int) ([]model.Delivery, error) {
	f.lastLimit = limit
	return f.items, f.err
}

type envelope struct {
	Code    pkgerrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	TraceID string              `json:"trace_id"`
}

func newRouter(status controller.BotStatus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceContextMiddleware())
	controller.NewBotController(status).RegisterRoutes(r)
	return r
}

func serve(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeStatus{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestState(t *testing.T) {
	status := &fakeStatus{state: model.PollState{Cursor: 1000, Cycles: 3, Sent: 2}}
	w, body := serve(t, newRouter(status), "/api/v1/bot/state")
	if w.Code != http.StatusOK || body.Code != pkgerrors.Success {
		t.Fatalf("unexpected status %d code %d", w.Code, body.Code)
	}
	if body.TraceID == "" {
		t.Fatalf("expected trace id in envelope")
	}
	var state model.PollState
	if err := json.Unmarshal(body.Data, &state); err != nil {
		t.Fatalf("decode state failed: %v", err)
	}
	if state.Cursor != 1000 || state.Cycles != 3 || state.Sent != 2 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestDeliveries(t *testing.T) {
	status := &fakeStatus{items: []model.Delivery{{ID: 2, Kind: model.DeliveryAlert, Text: "x"}}}
	w, body := serve(t, newRouter(status), "/api/v1/bot/deliveries?limit=5")
	if w.Code != http.StatusOK || body.Code != pkgerrors.Success {
		t.Fatalf("unexpected status %d code %d", w.Code, body.Code)
	}
	if status.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", status.lastLimit)
	}
	var payload controller.DeliveriesResponse
	if err := json.Unmarshal(body.Data, &payload); err != nil {
		t.Fatalf("decode deliveries failed: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].ID != 2 {
		t.Fatalf("unexpected items %+v", payload.Items)
	}
}

func TestDeliveriesRejectsBadLimit(t *testing.T) {
	status := &fakeStatus{}
	w, body := serve(t, newRouter(status), "/api/v1/bot/deliveries?limit=ten")
	if w.Code != http.StatusBadRequest || body.Code != pkgerrors.InvalidParams {
		t.Fatalf("expected 400 InvalidParams, got %d %d", w.Code, body.Code)
	}
}

func TestDeliveriesJournalError(t *testing.T) {
	status := &fakeStatus{err: pkgerrors.Wrap(errors.New("disk full"), pkgerrors.DatabaseError)}
	w, body := serve(t, newRouter(status), "/api/v1/bot/deliveries")
	if w.Code != http.StatusInternalServerError || body.Code != pkgerrors.DatabaseError {
		t.Fatalf("expected 500 DatabaseError, got %d %d", w.Code, body.Code)
	}
}
