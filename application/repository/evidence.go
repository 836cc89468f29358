package repository

import (
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/mongo"
)

var evidenceOnce = sync.Once{}

var evidenceRepository mongo.MongoRepository[entities.EvidenceRecord]

func EvidenceRepo() *mongo.MongoRepository[entities.EvidenceRecord] {
	evidenceOnce.Do(func() {
		evidenceRepository = mongo.MongoRepository[entities.EvidenceRecord]{Model: datastore.EvidenceModel}
	})
	return &evidenceRepository
}
