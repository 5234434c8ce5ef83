package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetsim/core/clock"
	"github.com/kilianp07/fleetsim/core/engine"
	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/stats"
)

type testServer struct {
	srv    *httptest.Server
	engine *engine.Engine
	driver *clock.Driver
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	eng, err := engine.New(engine.Config{})
	require.NoError(t, err)
	driver := clock.NewDriver(clock.TickableFunc(func() { eng.Tick() }), 0, nil)
	srv := httptest.NewServer(NewRouter(Dependencies{Engine: eng, Clock: driver, Token: token}))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, engine: eng, driver: driver}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "tok")
	resp, env := s.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(env["data"]))
}

func TestSubmitJob(t *testing.T) {
	s := newTestServer(t, "")
	resp, env := s.do(t, http.MethodPost, "/api/jobs",
		`{"name":"parcel","processingTime":2,"profit":4,"deadline":3,"flexibility":"flexible"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var job model.Job
	require.NoError(t, json.Unmarshal(env["data"], &job))
	assert.Equal(t, "parcel", job.Name)
	assert.Equal(t, 2.0, job.ProfitToTimeRatio)
	assert.NotEmpty(t, job.ID)
	assert.Len(t, s.engine.Snapshot().Queued, 1)
}

func TestSubmitJobValidation(t *testing.T) {
	s := newTestServer(t, "")
	bodies := map[string]string{
		"missing field": `{"name":"a","processingTime":2,"profit":4,"flexibility":"strict"}`,
		"empty name":    `{"name":"","processingTime":2,"profit":4,"deadline":1,"flexibility":"strict"}`,
		"not json":      `{`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resp, env := s.do(t, http.MethodPost, "/api/jobs", body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(env["error"], &e))
			assert.Equal(t, "VALIDATION_ERROR", e.Code)
		})
	}
	assert.Empty(t, s.engine.Snapshot().Queued)
}

func TestAddVehicleAndState(t *testing.T) {
	s := newTestServer(t, "")
	resp, env := s.do(t, http.MethodPost, "/api/vehicles", "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"free_vehicles":1}`, string(env["data"]))

	_, env = s.do(t, http.MethodGet, "/api/state", "", "")
	var v model.StateView
	require.NoError(t, json.Unmarshal(env["data"], &v))
	assert.Equal(t, 1, v.FreeVehicles)
	assert.NotNil(t, v.Queued)
}

func TestListJobsOrder(t *testing.T) {
	s := newTestServer(t, "")
	s.engine.AddVehicle()
	for _, n := range []string{"first", "second"} {
		_, err := s.engine.Submit(model.JobInput{Name: n, ProcessingTime: 1, Deadline: 1, Flexibility: model.Strict})
		require.NoError(t, err)
	}
	s.engine.Tick()

	_, env := s.do(t, http.MethodGet, "/api/jobs", "", "")
	var views []model.JobView
	require.NoError(t, json.Unmarshal(env["data"], &views))
	require.Len(t, views, 2)
	assert.Equal(t, model.StatusOngoing, views[0].Status)
	assert.Equal(t, 0.5, views[0].Progress)
	assert.Equal(t, model.StatusQueued, views[1].Status)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, "")
	s.engine.AddVehicle()
	_, env := s.do(t, http.MethodGet, "/api/stats", "", "")
	var sum stats.Summary
	require.NoError(t, json.Unmarshal(env["data"], &sum))
	assert.Equal(t, 1, sum.FreeVehicles)
}

func TestClockRoutes(t *testing.T) {
	s := newTestServer(t, "")
	_, env := s.do(t, http.MethodPost, "/api/clock/start", "", "")
	var st ClockStatus
	require.NoError(t, json.Unmarshal(env["data"], &st))
	assert.True(t, st.Running)
	assert.Equal(t, int64(500), st.IntervalMS)
	assert.True(t, s.driver.Running())

	_, env = s.do(t, http.MethodPost, "/api/clock/stop", "", "")
	require.NoError(t, json.Unmarshal(env["data"], &st))
	assert.False(t, st.Running)

	_, env = s.do(t, http.MethodGet, "/api/clock", "", "")
	require.NoError(t, json.Unmarshal(env["data"], &st))
	assert.False(t, st.Running)
}

func TestClockRoutesWithoutDriver(t *testing.T) {
	eng, err := engine.New(engine.Config{})
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(Dependencies{Engine: eng}))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/api/clock")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestTokenRequired(t *testing.T) {
	s := newTestServer(t, "secret")
	resp, _ := s.do(t, http.MethodGet, "/api/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/api/state", "", "secret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
