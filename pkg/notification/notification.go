// Package notification provides a multi-channel delivery system for
// collection reminders and account events.
//
// Define a Notification:
//
//	type ReminderDigest struct { TailorID string; Overdue int }
//	func (n *ReminderDigest) Via() []string { return []string{"webhook", "database"} }
//	func (n *ReminderDigest) ToWebhook() notification.WebhookData {
//	    return notification.WebhookData{URL: cfgURL, Payload: n}
//	}
//	func (n *ReminderDigest) ToDatabase() notification.DatabaseData {
//	    return notification.DatabaseData{Type: "reminder_digest", Data: n}
//	}
//
// Send:
//
//	notification.Send(tailorID, &ReminderDigest{...})
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
)

// ------------------- Channel data structs -------------------

// WebhookData carries an arbitrary JSON payload to POST to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// DatabaseData carries the data stored in the notifications collection.
type DatabaseData struct {
	Type    string
	Message string
	Data    interface{}
}

// LogData carries a structured log line for the log channel.
type LogData struct {
	Message string
	Attrs   []any // slog key/value pairs
}

// ------------------- Notification interface -------------------

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names: "webhook", "database", "log".
	Via() []string
}

// Webhookable can be implemented to support the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

// Databaseable can be implemented to store the notification in MongoDB.
type Databaseable interface {
	ToDatabase() DatabaseData
}

// Loggable can be implemented to support the log channel.
type Loggable interface {
	ToLog() LogData
}

// ------------------- Global config -------------------

// notifColl is the optional MongoDB backend for the database channel.
var notifColl *mongo.Collection

// UseCollection configures the database channel. Call once at boot:
//
//	notification.UseCollection(database.Collection("notifications"))
func UseCollection(coll *mongo.Collection) { notifColl = coll }

// DatabaseEnabled reports whether the database channel has a collection.
func DatabaseEnabled() bool { return notifColl != nil }

// ------------------- Send -------------------

// Send dispatches the notification through all channels returned by Via().
// recipient identifies who the notification is for (tailor ID); the database
// channel stores it alongside the payload.
func Send(recipient string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(recipient, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync dispatches the notification in a background goroutine.
func SendAsync(recipient string, n Notification) {
	go func() {
		if errs := Send(recipient, n); len(errs) > 0 {
			for _, e := range errs {
				logger.Error("notification: async error", "error", e)
			}
		}
	}()
}

func dispatch(recipient, channel string, n Notification) error {
	switch channel {
	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(wh.ToWebhook())

	case "database":
		db, ok := n.(Databaseable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Databaseable", n)
		}
		return storeDatabase(recipient, db.ToDatabase())

	case "log":
		l, ok := n.(Loggable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Loggable", n)
		}
		d := l.ToLog()
		logger.Info(d.Message, append([]any{"recipient", recipient}, d.Attrs...)...)
		return nil

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

// ------------------- Webhook channel -------------------

func sendWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	raw, err := json.Marshal(d.Payload)
	if err != nil {
		return fmt.Errorf("notification: webhook marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.URL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// ------------------- Database channel -------------------

type record struct {
	Recipient string      `bson:"recipient"`
	Type      string      `bson:"type"`
	Message   string      `bson:"message,omitempty"`
	Data      interface{} `bson:"data,omitempty"`
	CreatedAt time.Time   `bson:"createdAt"`
	ReadAt    *time.Time  `bson:"readAt,omitempty"`
}

func storeDatabase(recipient string, d DatabaseData) error {
	if notifColl == nil {
		return fmt.Errorf("notification: database channel not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := notifColl.InsertOne(ctx, record{
		Recipient: recipient,
		Type:      d.Type,
		Message:   d.Message,
		Data:      d.Data,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("notification: database insert: %w", err)
	}
	return nil
}
