package access

import (
	"context"
	"encoding/json"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/entities"
	"facegate.io/infrastructure/evidence"
	"facegate.io/infrastructure/logger"
	queue_tasks "facegate.io/infrastructure/message_queue/tasks"
	mq_types "facegate.io/infrastructure/message_queue/types"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventRepository interface {
	CreateOne(ctx context.Context, payload entities.AccessEvent, opts ...*options.InsertOneOptions) (*entities.AccessEvent, error)
}

type alertRepository interface {
	CreateOne(ctx context.Context, payload entities.Alert, opts ...*options.InsertOneOptions) (*entities.Alert, error)
}

type evidenceRepository interface {
	CreateOne(ctx context.Context, payload entities.EvidenceRecord, opts ...*options.InsertOneOptions) (*entities.EvidenceRecord, error)
}

type alertEnqueuer interface {
	Enqueue(task mq_types.QueueTask)
}

// Auditor owns the write side of a verification attempt: evidence frames,
// access events and security alerts. Audit failures are logged and reported
// upward but never alter a decision already made.
type Auditor struct {
	events   eventRepository
	alerts   alertRepository
	evidence evidenceRepository
	store    *evidence.Store
	queue    alertEnqueuer
	settings *config.Settings
}

func NewAuditor(
	events eventRepository,
	alerts alertRepository,
	evidenceRepo evidenceRepository,
	store *evidence.Store,
	queue alertEnqueuer,
	settings *config.Settings,
) *Auditor {
	return &Auditor{
		events:   events,
		alerts:   alerts,
		evidence: evidenceRepo,
		store:    store,
		queue:    queue,
		settings: settings,
	}
}

// SaveEvidence writes one captured image to disk and records its metadata.
// The prefix separates full frames from face crops on disk.
func (a *Auditor) SaveEvidence(ctx context.Context, prefix string, encoded []byte, width, height int, checkpointID string, capturedAt time.Time) (*entities.EvidenceRecord, error) {
	frame, err := a.store.Save(prefix, encoded, capturedAt)
	if err != nil {
		return nil, err
	}
	record, err := a.evidence.CreateOne(ctx, entities.EvidenceRecord{
		Path:         frame.Path,
		SHA256:       frame.SHA256,
		Width:        width,
		Height:       height,
		Format:       frame.Format,
		SizeBytes:    frame.SizeBytes,
		CheckpointID: checkpointID,
		CapturedAt:   capturedAt,
	})
	if err != nil {
		return nil, apperrors.PersistenceFault{Target: "evidence record", Err: err}
	}
	return record, nil
}

// RecordEvent persists the audit trail entry for one attempt.
func (a *Auditor) RecordEvent(ctx context.Context, outcome Outcome, checkpointID string, livenessScore float64, livenessPass bool, evidenceID *string, occurredAt time.Time) (*entities.AccessEvent, error) {
	event, err := a.events.CreateOne(ctx, entities.AccessEvent{
		UserID:       outcome.UserID,
		CheckpointID: checkpointID,
		Decision:     outcome.Decision,
		Reason:       outcome.Reason,
		Confidence:   outcome.Confidence,
		Liveness:     livenessScore,
		LivenessPass: livenessPass,
		EvidenceID:   evidenceID,
		OccurredAt:   occurredAt,
	})
	if err != nil {
		return nil, apperrors.PersistenceFault{Target: "access event", Err: err}
	}
	return event, nil
}

// RaiseAlert persists the alert and queues its email for delivery with a
// single permitted retry.
func (a *Auditor) RaiseAlert(ctx context.Context, alertType entities.AlertType, severity entities.AlertSeverity, message string, userID *string, userName string, checkpointID string, checkpointName string, eventID *string, evidenceID *string, raisedAt time.Time) (*entities.Alert, error) {
	alert, err := a.alerts.CreateOne(ctx, entities.Alert{
		Type:         alertType,
		Severity:     severity,
		Message:      message,
		UserID:       userID,
		CheckpointID: checkpointID,
		EventID:      eventID,
		EvidenceID:   evidenceID,
		RaisedAt:     raisedAt,
	})
	if err != nil {
		return nil, apperrors.PersistenceFault{Target: "alert", Err: err}
	}

	if a.settings.AlertEmailTo != "" {
		payload, marshalErr := json.Marshal(queue_tasks.AlertDeliveryPayload{
			To:             a.settings.AlertEmailTo,
			AlertType:      string(alertType),
			Severity:       string(severity),
			Message:        message,
			CheckpointName: checkpointName,
			UserName:       userName,
			OccurredAt:     raisedAt,
		})
		if marshalErr != nil {
			logger.Error("failed to marshal alert delivery payload", logger.LoggerOptions{
				Key:  "error",
				Data: marshalErr,
			})
		} else {
			a.queue.Enqueue(mq_types.QueueTask{
				Name:     queue_tasks.HandleAlertDeliveryTaskName,
				Payload:  payload,
				Priority: mq_types.High,
				MaxRetry: 1,
			})
		}
	}
	return alert, nil
}
