package entities

import (
	"time"

	"facegate.io/application/utils"
)

// EvidenceRecord describes one frame captured during a verification attempt.
// The image itself lives on disk; the record carries the path and an
// integrity hash over the stored bytes.
type EvidenceRecord struct {
	Path         string    `bson:"path" json:"path"`
	SHA256       string    `bson:"sha256" json:"sha256"`
	Width        int       `bson:"width" json:"width"`
	Height       int       `bson:"height" json:"height"`
	Format       string    `bson:"format" json:"format"`
	SizeBytes    int       `bson:"sizeBytes" json:"sizeBytes"`
	CheckpointID string    `bson:"checkpointId" json:"checkpointId"`
	CapturedAt   time.Time `bson:"capturedAt" json:"capturedAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model EvidenceRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
