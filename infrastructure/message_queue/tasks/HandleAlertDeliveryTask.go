package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"facegate.io/infrastructure/logger"
	mq_types "facegate.io/infrastructure/message_queue/types"
	"facegate.io/infrastructure/messaging/emails"
	"github.com/hibiken/asynq"
)

var HandleAlertDeliveryTaskName mq_types.Queues = "send_security_alert"

type AlertDeliveryPayload struct {
	To             string
	AlertType      string
	Severity       string
	Message        string
	CheckpointName string
	UserName       string
	OccurredAt     time.Time
}

// HandleAlertDeliveryTask delivers one security alert email. Returning an
// error hands the task back to the broker for its single retry.
func HandleAlertDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload AlertDeliveryPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling alert queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	subject := fmt.Sprintf("[%s] Security alert: %s", payload.Severity, payload.AlertType)
	success := emails.EmailService.SendEmail(payload.To, subject, "security_alert", map[string]any{
		"AlertType":      payload.AlertType,
		"Severity":       payload.Severity,
		"Message":        payload.Message,
		"CheckpointName": payload.CheckpointName,
		"UserName":       payload.UserName,
		"OccurredAt":     payload.OccurredAt.Format(time.RFC1123),
	})
	if !success {
		logger.Error("failed to send alert email", logger.LoggerOptions{
			Key:  "toEmail",
			Data: payload.To,
		}, logger.LoggerOptions{
			Key:  "alertType",
			Data: payload.AlertType,
		})
		return fmt.Errorf("failed to send alert email to %s", payload.To)
	}
	return nil
}
