package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
	"github.com/wayfarer-travel/wayfarer-backend/internal/models"
)

// alertChannel is the Redis channel new alerts are published on.
const alertChannel = "alerts:new"

// AlertEvent is the payload broadcast over Redis and WebSocket when an alert
// is created.
type AlertEvent struct {
	Type         string    `json:"type"`
	AlertID      string    `json:"alert_id"`
	AlertType    string    `json:"alert_type"`
	Title        string    `json:"title"`
	Destination  string    `json:"destination,omitempty"`
	Country      string    `json:"country,omitempty"`
	CurrencyCode string    `json:"currency_code,omitempty"`
	Severity     int       `json:"severity"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAlertEvent builds the broadcast payload for a stored alert.
func NewAlertEvent(a models.Alert) AlertEvent {
	return AlertEvent{
		Type:         "alert",
		AlertID:      a.ID.Hex(),
		AlertType:    a.Type,
		Title:        a.Title,
		Destination:  a.Destination,
		Country:      a.Country,
		CurrencyCode: a.CurrencyCode,
		Severity:     a.Severity,
		Timestamp:    a.CreatedAt,
	}
}

// AlertConn is the minimal interface the WebSocket implementation must satisfy.
type AlertConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// sendBuffer bounds how many undelivered events a slow connection may queue.
const sendBuffer = 16

// streamClient tracks a single WebSocket connection and its severity floor.
// All writes to the connection go through the send channel; a single writer
// goroutine drains it, so WriteJSON is never called concurrently.
type streamClient struct {
	send        chan AlertEvent
	minSeverity int
}

// alertHub is a global registry of stream connections.
type alertHub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*streamClient
}

var (
	streamHub    = &alertHub{clients: make(map[uuid.UUID]*streamClient)}
	redisStarted sync.Once
)

// RegisterAlertStream adds a connection with a severity floor and returns the
// id used to unregister it.
func RegisterAlertStream(conn AlertConn, minSeverity int) uuid.UUID {
	if minSeverity < 1 {
		minSeverity = 1
	}
	client := &streamClient{
		send:        make(chan AlertEvent, sendBuffer),
		minSeverity: minSeverity,
	}
	go alertWriteLoop(conn, client.send)

	id := uuid.New()
	streamHub.mu.Lock()
	streamHub.clients[id] = client
	streamHub.mu.Unlock()
	return id
}

// alertWriteLoop is the sole writer for a connection. It exits when the
// client's send channel is closed on unregister.
func alertWriteLoop(conn AlertConn, send <-chan AlertEvent) {
	for event := range send {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("error writing alert event to websocket: %v", err)
		}
	}
}

// UnregisterAlertStream removes a connection and stops its writer.
func UnregisterAlertStream(id uuid.UUID) {
	streamHub.mu.Lock()
	client, ok := streamHub.clients[id]
	if ok {
		delete(streamHub.clients, id)
	}
	streamHub.mu.Unlock()
	if ok {
		close(client.send)
	}
}

// FanOutAlertEvent queues an event for every local connection whose severity
// floor the event clears. Events for a full queue are dropped rather than
// blocking the fan-out.
func FanOutAlertEvent(event AlertEvent) {
	streamHub.mu.RLock()
	defer streamHub.mu.RUnlock()

	for _, client := range streamHub.clients {
		if event.Severity < client.minSeverity {
			continue
		}
		select {
		case client.send <- event:
		default:
			log.Printf("alert stream client queue full, dropping event %s", event.AlertID)
		}
	}
}

// StartRedisAlertSubscriber ensures a single shared Redis listener per instance.
func StartRedisAlertSubscriber(ctx context.Context) {
	redisStarted.Do(func() {
		go runRedisSubscriber(ctx)
	})
}

func runRedisSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; alert subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, alertChannel)
			defer pubsub.Close()

			log.Printf("✅ Alert Redis subscriber started (channel: %s)", alertChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event AlertEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal alert event: %v", err)
					continue
				}

				FanOutAlertEvent(event)
			}
		}()
	}
}

// PublishAlertEvent publishes an event to Redis; called after an alert is stored.
func PublishAlertEvent(ctx context.Context, event AlertEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, alertChannel, data).Err()
}
