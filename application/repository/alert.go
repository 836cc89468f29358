package repository

import (
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/mongo"
)

var alertOnce = sync.Once{}

var alertRepository mongo.MongoRepository[entities.Alert]

func AlertRepo() *mongo.MongoRepository[entities.Alert] {
	alertOnce.Do(func() {
		alertRepository = mongo.MongoRepository[entities.Alert]{Model: datastore.AlertModel}
	})
	return &alertRepository
}
