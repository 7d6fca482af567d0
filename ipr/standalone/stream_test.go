// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aton.dev/ipr/metrics"
	"go.aton.dev/ipr/telemetry"
)

func dialStream(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) telemetry.Event {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	e := telemetry.Event{}
	require.NoError(t, json.Unmarshal(msg, &e))
	return e
}

func TestEventStreamReceivesSessionEvents(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.router)
	t.Cleanup(server.Close)

	conn := dialStream(t, server)
	require.Eventually(t, func() bool { return ts.hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	response, err := http.Post(server.URL+"/session/start", "application/json", strings.NewReader(`{"aaSamples": 4}`))
	require.NoError(t, err)
	response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	e := readEvent(t, conn)
	assert.Equal(t, telemetry.SessionStart, e.Type)
	assert.Equal(t, "perspShape", e.Record["camera"])

	response, err = http.Post(server.URL+"/session/stop", "application/json", nil)
	require.NoError(t, err)
	response.Body.Close()

	assert.Equal(t, telemetry.SessionStop, readEvent(t, conn).Type)
}

func TestEventStreamTracksClients(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.router)
	t.Cleanup(server.Close)

	before := testutil.ToFloat64(metrics.StreamClientsCurrent)
	conn := dialStream(t, server)
	require.Eventually(t, func() bool { return ts.hub.ClientCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StreamClientsCurrent))

	conn.Close()
	require.Eventually(t, func() bool { return ts.hub.ClientCount() == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, before, testutil.ToFloat64(metrics.StreamClientsCurrent))
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	hub.Broadcast(telemetry.Event{Type: telemetry.SequenceStep})
	assert.Equal(t, 0, hub.ClientCount())
}
