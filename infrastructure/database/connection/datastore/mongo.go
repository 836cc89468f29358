package datastore

import (
	"context"
	"time"

	"facegate.io/application/config"
	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserModel         *mongo.Collection
	FaceTemplateModel *mongo.Collection
	AccessRuleModel   *mongo.Collection
	CheckpointModel   *mongo.Collection
	AccessEventModel  *mongo.Collection
	AlertModel        *mongo.Collection
	EvidenceModel     *mongo.Collection
)

func ConnectToDatabase(settings *config.Settings) *context.CancelFunc {
	return connectMongo(settings)
}

func connectMongo(settings *config.Settings) *context.CancelFunc {
	url := settings.DBURL

	if url == "" {
		logger.Error("mongo url missing")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return &cancel
	}

	db := client.Database(settings.DBName)
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
	return &cancel
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	UserModel = db.Collection("Users")
	UserModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "employeeId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	FaceTemplateModel = db.Collection("FaceTemplates")
	FaceTemplateModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "modelId", Value: 1}},
		Options: options.Index(),
	}})

	AccessRuleModel = db.Collection("AccessRules")
	AccessRuleModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "zoneId", Value: 1}},
		Options: options.Index(),
	}})

	CheckpointModel = db.Collection("Checkpoints")

	AccessEventModel = db.Collection("AccessEvents")
	AccessEventModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "checkpointId", Value: 1}, {Key: "occurredAt", Value: -1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index(),
	}})

	AlertModel = db.Collection("Alerts")
	AlertModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "raisedAt", Value: -1}},
		Options: options.Index(),
	}})

	EvidenceModel = db.Collection("EvidenceRecords")
	EvidenceModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "sha256", Value: 1}},
		Options: options.Index(),
	}})

	logger.Info("mongodb indexes set up successfully")
}
