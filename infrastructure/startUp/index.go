package startup

import (
	"facegate.io/application/config"
	"facegate.io/application/controller"
	"facegate.io/application/repository"
	"facegate.io/application/usecases/access"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/cryptography"
	"facegate.io/infrastructure/database"
	"facegate.io/infrastructure/database/repository/cache"
	"facegate.io/infrastructure/evidence"
	"facegate.io/infrastructure/logger"
	messagequeue "facegate.io/infrastructure/message_queue"
)

var visionService *biometric.BiometricService

// StartServices builds every service the engine needs. Failures here are
// fatal: a checkpoint that cannot verify should not pretend to serve.
func StartServices(settings *config.Settings) {
	database.SetUpDatabase(settings)

	vision, err := biometric.InitialiseBiometricService(settings)
	if err != nil {
		logger.Error("failed to initialise biometric service", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		panic(err)
	}
	visionService = vision

	cipher, err := cryptography.NewTemplateCipher(settings.TemplateKey)
	if err != nil {
		panic(err)
	}

	store, err := evidence.NewStore(settings.EvidenceRoot)
	if err != nil {
		panic(err)
	}

	templates := access.NewTemplateStore(repository.FaceTemplateRepo(), repository.UserRepo(), cipher, settings)
	tracker := access.NewFailureTracker(&cache.RedisRepository{}, settings.FailedAttemptStreak, settings.FailedAttemptWindow)
	auditor := access.NewAuditor(
		repository.AccessEventRepo(),
		repository.AlertRepo(),
		repository.EvidenceRepo(),
		store,
		messagequeue.TaskQueue,
		settings,
	)
	engine := access.NewEngine(
		vision,
		templates,
		repository.AccessRuleRepo(),
		repository.CheckpointRepo(),
		repository.UserRepo(),
		auditor,
		tracker,
		settings,
	)
	stats := access.NewStatsService(
		repository.UserRepo(),
		repository.FaceTemplateRepo(),
		repository.AccessEventRepo(),
		repository.AlertRepo(),
		settings,
	)

	controller.InitialiseControllers(engine, stats, store)
	logger.Info("services started")
}

// CleanUpServices releases what StartServices acquired.
func CleanUpServices() {
	if visionService != nil {
		visionService.Close()
	}
}
