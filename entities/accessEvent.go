package entities

import (
	"time"

	"facegate.io/application/utils"
)

type AccessDecision string

const (
	DecisionPermitted AccessDecision = "PERMITTED"
	DecisionDenied    AccessDecision = "DENIED"
	// DecisionError marks an attempt the engine could not score because of an
	// infrastructure or model fault. It is never a grant.
	DecisionError AccessDecision = "ERROR"
)

// AccessEvent is the audit record of one verification attempt. Every attempt
// produces exactly one event, whatever the outcome.
type AccessEvent struct {
	UserID       *string        `bson:"userId" json:"userId"`
	CheckpointID string         `bson:"checkpointId" json:"checkpointId"`
	Decision     AccessDecision `bson:"decision" json:"decision"`
	Reason       string         `bson:"reason" json:"reason"`
	Confidence   float64        `bson:"confidence" json:"confidence"`
	Liveness     float64        `bson:"liveness" json:"liveness"`
	LivenessPass bool           `bson:"livenessPass" json:"livenessPass"`
	EvidenceID   *string        `bson:"evidenceId" json:"evidenceId"`
	OccurredAt   time.Time      `bson:"occurredAt" json:"occurredAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model AccessEvent) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
