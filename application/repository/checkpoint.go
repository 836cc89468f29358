package repository

import (
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/mongo"
)

var checkpointOnce = sync.Once{}

var checkpointRepository mongo.MongoRepository[entities.Checkpoint]

func CheckpointRepo() *mongo.MongoRepository[entities.Checkpoint] {
	checkpointOnce.Do(func() {
		checkpointRepository = mongo.MongoRepository[entities.Checkpoint]{Model: datastore.CheckpointModel}
	})
	return &checkpointRepository
}
