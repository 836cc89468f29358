package entities

import (
	"time"

	"facegate.io/application/utils"
)

// Checkpoint is a physical access point running a camera. Checkpoints are
// grouped into zones; access rules are written against the zone, so every
// checkpoint in a zone shares them.
type Checkpoint struct {
	Name     string `bson:"name" json:"name"`
	Location string `bson:"location" json:"location"`
	ZoneID   string `bson:"zoneId" json:"zoneId"`
	Active   bool   `bson:"active" json:"active"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Checkpoint) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
