package controller

import (
	"facegate.io/application/usecases/access"
	"facegate.io/infrastructure/evidence"
)

var (
	accessEngine  *access.Engine
	statsService  *access.StatsService
	evidenceStore *evidence.Store
)

// InitialiseControllers wires the request handlers to the services built at
// startup.
func InitialiseControllers(engine *access.Engine, stats *access.StatsService, store *evidence.Store) {
	accessEngine = engine
	statsService = stats
	evidenceStore = store
}
