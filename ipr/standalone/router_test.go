// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/core/statejson"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/region"
	"go.aton.dev/ipr/sequencer"
	"go.aton.dev/ipr/session"
	"go.aton.dev/ipr/simengine"
	"go.aton.dev/ipr/telemetry"
	"go.aton.dev/ipr/testdata/mockengine"
)

type testServer struct {
	engine *mockengine.MockEngine
	scene  *simengine.Scene
	events *telemetry.StandaloneEventsAPI
	ctrl   *session.Controller
	seq    *sequencer.Sequencer
	hub    *Hub
	router *chi.Mux
}

func newTestServer(t *testing.T) *testServer {
	ts := &testServer{
		engine: mockengine.New(),
		scene:  simengine.NewScene(),
		events: telemetry.NewStandaloneEventsAPI(clockwork.NewFakeClock()),
		hub:    NewHub(),
	}
	t.Cleanup(ts.hub.Close)
	ts.events.AddListener(ts.hub.Broadcast)

	hostEvents := simengine.NewHostEvents()
	ts.scene.Events = hostEvents
	driver := simengine.NewDriver()
	ts.engine.AddShape("bodyShape", "bodySG")

	ts.ctrl = session.NewBuilder(ts.engine, ts.scene, driver, hostEvents).SetEventsAPI(ts.events).Build()
	ts.seq = sequencer.New(ts.ctrl, ts.engine, core.NewPoller(clockwork.NewRealClock(), time.Millisecond)).
		SetEventsAPI(ts.events)
	ts.router = NewHTTPRouter(ts.ctrl, ts.seq, ts.scene, ts.events, ts.hub)
	return ts
}

// Make a test request
func makeTestRequest(t *testing.T, router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)
	t.Logf("test(%v) = %v", request.URL, responseRecorder.Code)
	return responseRecorder
}

func (ts *testServer) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	return makeTestRequest(t, ts.router, httptest.NewRequest("POST", path, strings.NewReader(body)))
}

func (ts *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return makeTestRequest(t, ts.router, httptest.NewRequest("GET", path, nil))
}

// Verify response error type
func assertResponseErrorType(t *testing.T, expectedErrorType string, response *httptest.ResponseRecorder) {
	errResp := ErrorResponse{}
	err := json.Unmarshal(response.Body.Bytes(), &errResp)
	assert.Nil(t, err)
	assert.Equal(t, expectedErrorType, errResp.ErrorType)
}

func decodeSession(t *testing.T, response *httptest.ResponseRecorder) statejson.SessionDescription {
	desc := statejson.SessionDescription{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &desc))
	return desc
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	response := ts.get(t, "/test/ping")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "pong", response.Body.String())
}

func Test404PageNotFound(t *testing.T) {
	ts := newTestServer(t)
	response := ts.post(t, "/session/unsupported", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	desc := decodeSession(t, ts.get(t, "/session"))
	assert.Equal(t, core.IdleStateName, desc.State.Name)

	response := ts.post(t, "/session/start", `{"resolution": 50, "shader": "grey"}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	desc = decodeSession(t, response)
	assert.Equal(t, core.RunningStateName, desc.State.Name)
	assert.Equal(t, "960x540", desc.Resolution)
	assert.Equal(t, "grey", desc.Shader)
	assert.Equal(t, 0, ts.engine.IndexOf("SessionStart(perspShape,960,540)"))

	response = ts.post(t, "/session/start", "")
	assert.Equal(t, http.StatusConflict, response.Code)
	assertResponseErrorType(t, "Session.AlreadyRunning", response)

	response = ts.post(t, "/session/restart", `{"resolution": 25}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.Equal(t, "480x270", decodeSession(t, response).Resolution)

	response = ts.post(t, "/session/stop", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, core.IdleStateName, decodeSession(t, response).State.Name)
}

func TestStartRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	response := ts.post(t, "/session/start", `{"resolution":`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, string(ClientInvalidRequest), response)

	response = ts.post(t, "/session/start", `{"resolution": 0}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Overrides.Invalid", response)

	response = ts.post(t, "/session/start", `{"camera": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Session.InvalidCamera", response)

	ts.engine.Unavailable = true
	response = ts.post(t, "/session/start", "")
	assert.Equal(t, http.StatusServiceUnavailable, response.Code)
	assertResponseErrorType(t, "Engine.Unavailable", response)
}

func TestOverridesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	response := ts.post(t, "/session/overrides/aaSamples", `{"aaSamples": 8}`)
	assert.Equal(t, http.StatusConflict, response.Code)
	assertResponseErrorType(t, "Session.NotRunning", response)

	require.Equal(t, http.StatusOK, ts.post(t, "/session/start", "").Code)

	response = ts.post(t, "/session/overrides/aaSamples", `{"aaSamples": 8}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	v, ok := ts.engine.Option(interop.OptionAASamples)
	require.True(t, ok)
	assert.Equal(t, 8, v)

	response = ts.post(t, "/session/overrides/lighting", "{}")
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Overrides.Invalid", response)

	ts.engine.PauseErr = assert.AnError
	response = ts.post(t, "/session/overrides/all", "")
	assert.Equal(t, http.StatusServiceUnavailable, response.Code)
	assertResponseErrorType(t, "Engine.Busy", response)
}

func TestSequenceEndpoints(t *testing.T) {
	ts := newTestServer(t)

	response := ts.post(t, "/sequence/start", `{"frames": [2, 3]}`)
	assert.Equal(t, http.StatusConflict, response.Code)
	assertResponseErrorType(t, "Session.NotRunning", response)

	require.Equal(t, http.StatusOK, ts.post(t, "/session/start", `{"sequence": {"start": 4, "end": 8, "step": 2}}`).Code)

	response = ts.post(t, "/sequence/start", "")
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.seq.Wait(ctx))
	assert.Equal(t, []float64{1, 4, 6, 8}, ts.engine.Frames())

	desc := decodeSession(t, ts.get(t, "/session"))
	assert.Equal(t, core.IdleStateName, desc.State.Name)
	require.NotNil(t, desc.Sequence)
	assert.Equal(t, 3, desc.Sequence.Total)
	assert.Equal(t, 3, desc.Sequence.Stepped)

	response = ts.post(t, "/sequence/stop", "")
	assert.Equal(t, http.StatusOK, response.Code)
}

func TestStartRunsEnabledSequence(t *testing.T) {
	ts := newTestServer(t)

	response := ts.post(t, "/session/start", `{"sequence": {"enabled": true, "start": 4, "end": 2, "step": 1}}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Overrides.Invalid", response)
	assert.False(t, ts.ctrl.Running())

	response = ts.post(t, "/session/start", `{"sequence": {"enabled": true, "start": 2, "end": 4, "step": 1}}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.seq.Wait(ctx))
	assert.Equal(t, []float64{1, 2, 3, 4}, ts.engine.Frames())
	assert.False(t, ts.ctrl.Running())
}

func TestRestartDuringSequenceKeepsNewSession(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.StartPolls = mockengine.Never

	response := ts.post(t, "/session/start", `{"sequence": {"enabled": true, "start": 2, "end": 3, "step": 1}}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	require.True(t, ts.seq.Running())

	response = ts.post(t, "/session/restart", "")
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	restarted := decodeSession(t, response).SessionID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.seq.Wait(ctx))

	desc := decodeSession(t, ts.get(t, "/session"))
	assert.Equal(t, core.RunningStateName, desc.State.Name)
	assert.Equal(t, restarted, desc.SessionID)
	require.NotNil(t, desc.Sequence)
	assert.Equal(t, 0, desc.Sequence.Stepped)
}

func TestSequenceStartRejectsBadRange(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.post(t, "/session/start", "").Code)

	response := ts.post(t, "/sequence/start", `{"range": {"start": 10, "end": 1, "step": 1}}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Overrides.Invalid", response)
}

func TestSceneEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.scene.AddCamera("top", "topShape", false)

	response := ts.get(t, "/scene")
	require.Equal(t, http.StatusOK, response.Code)

	scene := sceneDescription{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &scene))
	assert.Equal(t, []string{"persp", "top"}, scene.Cameras)
	assert.Equal(t, 1920, scene.Width)
	assert.Equal(t, 24, scene.FrameEnd)
	assert.Equal(t, 100, scene.Defaults.Resolution)
	assert.Equal(t, "perspShape", scene.Options["activeCamera"])

	ts.scene.SetActiveRenderer(false)
	scene = sceneDescription{}
	require.NoError(t, json.Unmarshal(ts.get(t, "/scene").Body.Bytes(), &scene))
	assert.Nil(t, scene.Options)
}

func TestNukeRegionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	crop := "set cut_paste_input [stack 0]\nversion 10.5 v4\npush $cut_paste_input\nCrop {\n box {120.5 64 1800 1016.9}\n name Crop1\n}\n"
	response := ts.post(t, "/region/nuke", crop)
	require.Equal(t, http.StatusOK, response.Code)
	box := region.Box{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &box))
	assert.Equal(t, region.Box{X: 120, Y: 64, R: 1800, T: 1016}, box)

	response = ts.post(t, "/region/nuke", "hello")
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assertResponseErrorType(t, "Region.NotNukeCrop", response)
}

func TestEventLogEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.post(t, "/session/start", "").Code)
	require.Equal(t, http.StatusOK, ts.post(t, "/session/stop", "").Code)

	response := ts.get(t, "/events")
	require.Equal(t, http.StatusOK, response.Code)
	eventLog := telemetry.EventLog{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &eventLog))
	require.Len(t, eventLog.Events, 2)
	assert.Equal(t, telemetry.SessionStart, eventLog.Events[0].Type)
	assert.Equal(t, telemetry.SessionStop, eventLog.Events[1].Type)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/test/ping")

	response := ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `aton_ipr_http_requests_total{method="GET",route="/test/ping",status_code="200"}`)
}
