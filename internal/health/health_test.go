package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edgard/tgdiary/internal/health"
	"github.com/edgard/tgdiary/internal/state"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeProber struct {
	name string
	err  error
}

func (f fakeProber) Username(context.Context) (string, error) { return f.name, f.err }

type fakeState struct {
	st  state.State
	err error
}

func (f fakeState) ReadPrimary() (state.State, error) { return f.st, f.err }

func TestCheck(t *testing.T) {
	t.Parallel()

	down := errors.New("down")
	tests := []struct {
		name      string
		prober    fakeProber
		state     fakeState
		wantAPI   bool
		wantState bool
		wantOK    bool
	}{
		{name: "healthy", prober: fakeProber{name: "diarybot"}, state: fakeState{st: state.State{LastUpdateID: 9}}, wantAPI: true, wantState: true, wantOK: true},
		{name: "api down", prober: fakeProber{err: down}, state: fakeState{st: state.State{LastUpdateID: 9}}, wantState: true},
		{name: "state unreadable", prober: fakeProber{name: "diarybot"}, state: fakeState{err: down}, wantAPI: true},
		{name: "both down", prober: fakeProber{err: down}, state: fakeState{err: down}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := health.NewChecker(tt.prober, tt.state, time.Second, quiet).Check(context.Background())
			if r.API != tt.wantAPI || r.State != tt.wantState || r.OK != tt.wantOK {
				t.Errorf("Check() = %+v, want api=%v state=%v ok=%v", r, tt.wantAPI, tt.wantState, tt.wantOK)
			}
			if tt.wantAPI && r.BotUsername != "diarybot" {
				t.Errorf("BotUsername = %q", r.BotUsername)
			}
			if tt.wantState && (r.LastUpdateID == nil || *r.LastUpdateID != 9) {
				t.Errorf("LastUpdateID = %v, want 9", r.LastUpdateID)
			}
			if !tt.wantState && r.LastUpdateID != nil {
				t.Errorf("LastUpdateID = %v, want nil", *r.LastUpdateID)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prober     fakeProber
		wantStatus int
	}{
		{name: "ok", prober: fakeProber{name: "diarybot"}, wantStatus: http.StatusOK},
		{name: "unavailable", prober: fakeProber{err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := health.NewChecker(tt.prober, fakeState{st: state.State{LastUpdateID: 3}}, time.Second, quiet).Handler()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["ok"] != (tt.wantStatus == http.StatusOK) {
				t.Errorf("body ok = %v", body["ok"])
			}
			if body["last_update_id"] != float64(3) {
				t.Errorf("body last_update_id = %v", body["last_update_id"])
			}
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	checker := health.NewChecker(fakeProber{name: "x"}, fakeState{}, time.Second, quiet)
	go func() { done <- checker.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
