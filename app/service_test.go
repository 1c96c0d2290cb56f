package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/phasebal/config"
	"github.com/kilianp07/phasebal/core/balance"
	"github.com/kilianp07/phasebal/core/factory"
)

const request = `{"circuits":[
	{"circuitNumber":1,"name":"Cooker","designCurrent":32,"canRelocate":true},
	{"circuitNumber":2,"name":"Sockets","designCurrent":20,"canRelocate":true},
	{"circuitNumber":3,"name":"Lights","designCurrent":6,"canRelocate":false,"lockedPhase":"L3"}]}`

func TestServiceHandler(t *testing.T) {
	svc, err := New(config.Default())
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/balance", strings.NewReader(request)))
	require.Equal(t, http.StatusOK, rr.Code)

	var rep balance.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	phase, ok := rep.Result.PhaseOf(3)
	require.True(t, ok)
	assert.Equal(t, "L3", phase.String())
	assert.InDelta(t, 58, rep.Result.L1Total+rep.Result.L2Total+rep.Result.L3Total, 1e-9)
}

func TestServiceServe(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Token = "t0k"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, ln) }()

	req, err := http.NewRequest(http.MethodPost, "http://"+ln.Addr().String()+"/api/balance", strings.NewReader(request))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer t0k")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("service did not stop")
	}
}

func TestServiceHistory(t *testing.T) {
	cfg := config.Default()
	cfg.History = factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(t.TempDir(), "runs.db")}}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/balance", strings.NewReader(request)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/runs?limit=5", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Cooker")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.History = factory.ModuleConfig{Type: "tape"}
	_, err = New(cfg)
	assert.Error(t, err)
}
