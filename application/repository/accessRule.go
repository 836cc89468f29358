package repository

import (
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/connection/datastore"
	"facegate.io/infrastructure/database/repository/mongo"
)

var accessRuleOnce = sync.Once{}

var accessRuleRepository mongo.MongoRepository[entities.AccessRule]

func AccessRuleRepo() *mongo.MongoRepository[entities.AccessRule] {
	accessRuleOnce.Do(func() {
		accessRuleRepository = mongo.MongoRepository[entities.AccessRule]{Model: datastore.AccessRuleModel}
	})
	return &accessRuleRepository
}
