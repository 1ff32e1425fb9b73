package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shashiranjanraj/tailorcraft/config"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/metrics"
	"github.com/shashiranjanraj/tailorcraft/pkg/notification"
	"github.com/shashiranjanraj/tailorcraft/pkg/queue"
	"github.com/shashiranjanraj/tailorcraft/pkg/ws"
)

// ReminderSweeper recomputes every tailor's urgency buckets on a schedule,
// refreshes the Prometheus gauges, pushes updates to open dashboards and
// queues a digest notification per tailor with actionable orders.
type ReminderSweeper struct {
	service *CustomerService
	hub     *ws.Hub
}

func NewReminderSweeper(service *CustomerService, hub *ws.Hub) *ReminderSweeper {
	return &ReminderSweeper{service: service, hub: hub}
}

// Run performs one full sweep. Safe to call concurrently with request
// traffic; it reads the same snapshots the API serves.
func (s *ReminderSweeper) Run(ctx context.Context) {
	now := time.Now()
	log := logger.WithCtx(ctx)

	tailorIDs, err := s.service.Store().TailorIDs(ctx)
	if err != nil {
		log.Error("sweep: list tailors", "error", err)
		return
	}

	totals := map[string]int{"overdue": 0, "today": 0, "tomorrow": 0, "upcoming": 0}
	for _, tailorID := range tailorIDs {
		buckets, err := s.service.Reminders(ctx, tailorID, now)
		if err != nil {
			log.Error("sweep: reminders", "tailor_id", tailorID, "error", err)
			continue
		}

		for bucket, n := range buckets.Counts() {
			totals[bucket] += n
		}

		if s.hub != nil {
			if payload, err := json.Marshal(map[string]interface{}{
				"type":    "reminders",
				"buckets": buckets,
			}); err == nil {
				s.hub.SendTo(tailorID, payload)
			}
		}

		if buckets.Total() > 0 {
			job := &ReminderDigestJob{
				TailorID:    tailorID,
				Counts:      buckets.Counts(),
				Total:       buckets.Total(),
				GeneratedAt: now,
			}
			if err := queue.Dispatch(job); err != nil {
				log.Error("sweep: dispatch digest", "tailor_id", tailorID, "error", err)
			}
		}
	}

	metrics.SetReminderBuckets(totals)
	if count, err := s.service.Store().CountAll(ctx); err == nil {
		metrics.CustomersTotal.Set(float64(count))
	}

	log.Info("sweep: completed",
		"tailors", len(tailorIDs),
		"overdue", totals["overdue"],
		"today", totals["today"],
	)
}

// RefreshGauges recomputes the Prometheus reminder gauges without pushing
// or queueing anything. Cheap enough to run every few minutes.
func (s *ReminderSweeper) RefreshGauges(ctx context.Context) {
	tailorIDs, err := s.service.Store().TailorIDs(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("sweep: list tailors", "error", err)
		return
	}

	now := time.Now()
	totals := map[string]int{"overdue": 0, "today": 0, "tomorrow": 0, "upcoming": 0}
	for _, tailorID := range tailorIDs {
		buckets, err := s.service.Reminders(ctx, tailorID, now)
		if err != nil {
			continue
		}
		for bucket, n := range buckets.Counts() {
			totals[bucket] += n
		}
	}

	metrics.SetReminderBuckets(totals)
	if count, err := s.service.Store().CountAll(ctx); err == nil {
		metrics.CustomersTotal.Set(float64(count))
	}
}

// ─── Digest job ──────────────────────────────────────────────────────────────

// ReminderDigestJobName is the queue registry key for ReminderDigestJob.
const ReminderDigestJobName = "*services.ReminderDigestJob"

// ReminderDigestJob delivers one tailor's reminder digest through the
// notification channels. Runs on the queue workers.
type ReminderDigestJob struct {
	TailorID    string         `json:"tailorId"`
	Counts      map[string]int `json:"counts"`
	Total       int            `json:"total"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// RegisterJobs makes the service job types known to the queue. Call once
// at boot.
func RegisterJobs() {
	queue.Register(ReminderDigestJobName, func() queue.Job { return &ReminderDigestJob{} })
}

func (j *ReminderDigestJob) Handle() error {
	start := time.Now()
	errs := notification.Send(j.TailorID, &reminderDigest{job: j})
	if len(errs) > 0 {
		metrics.RecordQueueJob("reminder_digest", "failed", start)
		return errs[0]
	}
	metrics.RecordQueueJob("reminder_digest", "success", start)
	return nil
}

// reminderDigest adapts the job payload to the notification channels.
type reminderDigest struct {
	job *ReminderDigestJob
}

func (d *reminderDigest) Via() []string {
	channels := []string{"log"}
	if config.ReminderWebhookURL() != "" {
		channels = append(channels, "webhook")
	}
	if notification.DatabaseEnabled() {
		channels = append(channels, "database")
	}
	return channels
}

func (d *reminderDigest) ToLog() notification.LogData {
	return notification.LogData{
		Message: "reminder digest",
		Attrs: []any{
			"total", d.job.Total,
			"overdue", d.job.Counts["overdue"],
			"today", d.job.Counts["today"],
			"tomorrow", d.job.Counts["tomorrow"],
			"upcoming", d.job.Counts["upcoming"],
		},
	}
}

func (d *reminderDigest) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL:     config.ReminderWebhookURL(),
		Payload: d.job,
	}
}

func (d *reminderDigest) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		Type:    "reminder_digest",
		Message: "Collection reminders pending",
		Data:    d.job,
	}
}
