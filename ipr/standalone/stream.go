// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/metrics"
	"go.aton.dev/ipr/telemetry"
)

const (
	streamSendBuffer   = 16
	streamWriteTimeout = 5 * time.Second
)

type clientWriter struct {
	conn     *websocket.Conn
	sendCh   chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, streamSendBuffer),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg := <-cw.sendCh:
			cw.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.WithError(err).Debug("Event stream write failed")
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	cw.stopOnce.Do(func() {
		close(cw.done)
		cw.conn.Close()
	})
}

// Hub fans session and sequence events out to websocket clients. A client
// that cannot keep up loses events rather than blocking the session.
type Hub struct {
	mutex    sync.Mutex
	clients  map[*websocket.Conn]*clientWriter
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: map[*websocket.Conn]*clientWriter{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// viewers connect from file:// pages and other local tools
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Broadcast is a telemetry.StandaloneEventsAPI listener.
func (h *Hub) Broadcast(e telemetry.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal stream event")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, cw := range h.clients {
		select {
		case cw.sendCh <- msg:
		default:
			log.Warnf("Event stream client %s is slow, dropping %s", cw.conn.RemoteAddr(), e.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Event stream upgrade failed")
		return
	}

	cw := h.register(conn)
	defer h.unregister(conn, cw)

	// read pump, only used to notice the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) *clientWriter {
	cw := newClientWriter(conn)
	h.mutex.Lock()
	h.clients[conn] = cw
	metrics.StreamClientsCurrent.Inc()
	h.mutex.Unlock()
	log.Debugf("Event stream client %s connected", conn.RemoteAddr())
	return cw
}

func (h *Hub) unregister(conn *websocket.Conn, cw *clientWriter) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		metrics.StreamClientsCurrent.Dec()
	}
	h.mutex.Unlock()

	cw.stop()
	log.Debugf("Event stream client %s disconnected", conn.RemoteAddr())
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = map[*websocket.Conn]*clientWriter{}
	metrics.StreamClientsCurrent.Sub(float64(len(clients)))
	h.mutex.Unlock()

	for _, cw := range clients {
		cw.stop()
	}
}
