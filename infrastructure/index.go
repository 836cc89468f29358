package infrastructure

import (
	"sync"

	"facegate.io/application/config"
	"facegate.io/infrastructure/logger"
	messagequeue "facegate.io/infrastructure/message_queue"
)

func StartServer() {
	logger.InitializeLogger()

	settings, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		panic(err)
	}

	var server serverInterface = &ginServer{}
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		messagequeue.StartQueue(settings)
	}()

	go func() {
		defer wg.Done()
		server.Start(settings)
	}()

	wg.Wait()
}
