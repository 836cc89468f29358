package database

import (
	"facegate.io/application/config"
	"facegate.io/infrastructure/database/connection"
)

func SetUpDatabase(settings *config.Settings) {
	connection.ConnectToDatabase(settings)
}

type BaseModel interface {
	ParseModel() any
}
