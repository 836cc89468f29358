package entities

import (
	"time"

	"facegate.io/application/utils"
)

// User is a person enrolled for checkpoint access.
type User struct {
	Name       string `bson:"name" json:"name"`
	EmployeeID string `bson:"employeeId" json:"employeeId"`
	Department string `bson:"department" json:"department"`
	Active     bool   `bson:"active" json:"active"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model User) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
