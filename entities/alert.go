package entities

import (
	"time"

	"facegate.io/application/utils"
)

type AlertType string

const (
	AlertUnauthorized           AlertType = "unauthorized_access"
	AlertLivenessFail           AlertType = "liveness_failure"
	AlertUnknownUser            AlertType = "unknown_user"
	AlertMultipleFailedAttempts AlertType = "multiple_failed_attempts"
	AlertOutOfHours             AlertType = "out_of_hours"
	AlertRestrictedZone         AlertType = "restricted_zone"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a security notification raised by a denied access attempt.
type Alert struct {
	Type         AlertType     `bson:"type" json:"type"`
	Severity     AlertSeverity `bson:"severity" json:"severity"`
	Message      string        `bson:"message" json:"message"`
	UserID       *string       `bson:"userId" json:"userId"`
	CheckpointID string        `bson:"checkpointId" json:"checkpointId"`
	EventID      *string       `bson:"eventId" json:"eventId"`
	EvidenceID   *string       `bson:"evidenceId" json:"evidenceId"`
	Acknowledged bool          `bson:"acknowledged" json:"acknowledged"`
	RaisedAt     time.Time     `bson:"raisedAt" json:"raisedAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Alert) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
