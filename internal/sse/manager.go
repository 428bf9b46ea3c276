package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inbox-triage/internal/logger"
	"inbox-triage/internal/metrics"
)

const (
	EventConnection     = "connection"
	EventTriageUpdated  = "triage_updated"
	EventSnoozeExpired  = "snooze_expired"
	EventModelRefreshed = "model_refreshed"
)

const sendTimeout = 5 * time.Second

// SSEManager manages Server-Sent Event connections
type SSEManager struct {
	clients    map[string]map[chan []byte]bool // sessionID -> connection channels
	clientsMux sync.RWMutex

	broadcast chan []byte
	logger    *logger.Logger

	// Context for managing the SSE service lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSSEManager creates a new SSE manager
func NewSSEManager(logger *logger.Logger) *SSEManager {
	ctx, cancel := context.WithCancel(context.Background())

	manager := &SSEManager{
		clients:   make(map[string]map[chan []byte]bool),
		broadcast: make(chan []byte, 100),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	go manager.broadcastEvents()

	return manager
}

// AddClient adds a new client connection for a browser session
func (s *SSEManager) AddClient(sessionID string) chan []byte {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if s.clients[sessionID] == nil {
		s.clients[sessionID] = make(map[chan []byte]bool)
	}

	channel := make(chan []byte, 10)
	s.clients[sessionID][channel] = true
	metrics.SSEClients.Inc()

	s.logger.Info("Added SSE client for session:", sessionID, "total clients:", len(s.clients[sessionID]))

	return channel
}

// RemoveClient removes a client connection
func (s *SSEManager) RemoveClient(sessionID string, channel chan []byte) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	sessionClients, exists := s.clients[sessionID]
	if !exists || !sessionClients[channel] {
		return
	}

	delete(sessionClients, channel)
	close(channel)
	metrics.SSEClients.Dec()

	s.logger.Info("Removed SSE client for session:", sessionID, "remaining clients:", len(sessionClients))

	if len(sessionClients) == 0 {
		delete(s.clients, sessionID)
	}
}

// Broadcast queues an event for every connected client. The triage state is
// shared, so every session sees every update.
func (s *SSEManager) Broadcast(eventType string, data interface{}) {
	jsonData, err := encodeEvent(eventType, data)
	if err != nil {
		s.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	select {
	case s.broadcast <- jsonData:
	case <-s.ctx.Done():
	default:
		s.logger.Warn("Broadcast queue full, dropping event:", eventType)
	}
}

// BroadcastToSession sends an event to the connections of one session only
func (s *SSEManager) BroadcastToSession(sessionID string, eventType string, data interface{}) {
	jsonData, err := encodeEvent(eventType, data)
	if err != nil {
		s.logger.Error("Failed to marshal session event:", err)
		return
	}

	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	for channel := range s.clients[sessionID] {
		s.send(sessionID, channel, jsonData)
	}
}

func encodeEvent(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
		"time": time.Now().Unix(),
	})
}

func (s *SSEManager) send(sessionID string, channel chan []byte, payload []byte) {
	select {
	case channel <- payload:
	case <-time.After(sendTimeout):
		// Timeout - client might be disconnected
		s.logger.Warn("Timeout sending event to session:", sessionID)
	}
}

// broadcastEvents fans queued events out to all clients
func (s *SSEManager) broadcastEvents() {
	for {
		select {
		case payload := <-s.broadcast:
			s.clientsMux.RLock()
			for sessionID, sessionClients := range s.clients {
				for channel := range sessionClients {
					s.send(sessionID, channel, payload)
				}
			}
			s.clientsMux.RUnlock()
		case <-s.ctx.Done():
			return
		}
	}
}

// Close shuts down the SSE manager
func (s *SSEManager) Close() {
	s.cancel()

	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	for sessionID, sessionClients := range s.clients {
		for channel := range sessionClients {
			close(channel)
			metrics.SSEClients.Dec()
		}
		delete(s.clients, sessionID)
	}
}

// ConnectionCount returns the number of open connections across all sessions
func (s *SSEManager) ConnectionCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	total := 0
	for _, sessionClients := range s.clients {
		total += len(sessionClients)
	}
	return total
}

func (s *SSEManager) HasConnections() bool {
	return s.ConnectionCount() > 0
}
