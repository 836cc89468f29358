package entities

import (
	"time"

	"facegate.io/application/utils"
)

// FaceTemplate holds one enrolled embedding. Embedding bytes are encrypted
// at rest; only the template store ever sees the plaintext vector.
type FaceTemplate struct {
	UserID string `bson:"userId" json:"userId"`
	// Embedding is the serialized vector, encrypted with the template key.
	Embedding []byte `bson:"embedding" json:"-"`
	// ModelID names the embedding model that produced the vector. Vectors
	// from different models are never compared against each other.
	ModelID string  `bson:"modelId" json:"modelId"`
	Dims    int     `bson:"dims" json:"dims"`
	Quality float64 `bson:"quality" json:"quality"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model FaceTemplate) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
