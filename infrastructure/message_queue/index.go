package messagequeue

import (
	"facegate.io/application/config"
	"facegate.io/infrastructure/message_queue/asynq"
	mq_types "facegate.io/infrastructure/message_queue/types"
)

var broker = &asynq.AsynqBroker{}

var TaskQueue mq_types.TaskQueueBroker = broker

func StartQueue(settings *config.Settings) {
	broker.Settings = settings
	broker.Start()
}
