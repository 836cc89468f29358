package connection

import (
	"facegate.io/application/config"
	"facegate.io/infrastructure/database/connection/cache"
	"facegate.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase(settings *config.Settings) {
	datastore.ConnectToDatabase(settings)
	cache.ConnectToCache(settings)
}
