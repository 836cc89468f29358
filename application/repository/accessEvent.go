package repository

import (
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/mongo"
)

var accessEventOnce = sync.Once{}

var accessEventRepository mongo.MongoRepository[entities.AccessEvent]

func AccessEventRepo() *mongo.MongoRepository[entities.AccessEvent] {
	accessEventOnce.Do(func() {
		accessEventRepository = mongo.MongoRepository[entities.AccessEvent]{Model: datastore.AccessEventModel}
	})
	return &accessEventRepository
}
