package mongo

import (
	"context"
	"time"

	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T, opts ...*options.InsertOneOptions) (*T, error) {
	parsed := payload.ParseModel().(*T)
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := repo.Model.InsertOne(c, parsed, opts...)
	if err != nil {
		logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

func (repo *MongoRepository[T]) CreateMany(ctx context.Context, payload []T, opts ...*options.InsertManyOptions) (*[]T, error) {
	parsed := make([]T, len(payload))
	docs := make([]interface{}, len(payload))
	for i, item := range payload {
		p := item.ParseModel().(*T)
		parsed[i] = *p
		docs[i] = p
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := repo.Model.InsertMany(c, docs, opts...)
	if err != nil {
		logger.Error("mongo error occured while running CreateMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &parsed, nil
}

func (repo *MongoRepository[T]) FindOneByID(id string, opts ...*options.FindOneOptions) (*T, error) {
	return repo.FindOneByField(map[string]interface{}{"_id": id}, opts...)
}

func (repo *MongoRepository[T]) FindOneByField(filter map[string]interface{}, opts ...*options.FindOneOptions) (*T, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var result T
	err := repo.Model.FindOne(c, normaliseFilter(filter), opts...).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByField", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindMany(filter map[string]interface{}, opts ...*options.FindOptions) (*[]T, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cursor, err := repo.Model.Find(c, normaliseFilter(filter), opts...)
	if err != nil {
		logger.Error("mongo error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}

	results := []T{}
	if err := cursor.All(c, &results); err != nil {
		logger.Error("mongo error occured while decoding FindMany results", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &results, nil
}

// FindManyPaginated pages by _id. ULID ids sort chronologically so an _id
// cursor doubles as a creation-time cursor.
func (repo *MongoRepository[T]) FindManyPaginated(filter map[string]interface{}, pageSize int64, lastID *string, sort int) (*[]T, error) {
	paged := normaliseFilter(filter)
	if lastID != nil && *lastID != "" {
		if sort < 0 {
			paged["_id"] = map[string]interface{}{"$lt": *lastID}
		} else {
			paged["_id"] = map[string]interface{}{"$gt": *lastID}
		}
	}

	opts := options.Find().
		SetLimit(pageSize).
		SetSort(bson.D{{Key: "_id", Value: sort}})
	return repo.FindMany(paged, opts)
}

func (repo *MongoRepository[T]) CountDocs(filter map[string]interface{}) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	count, err := repo.Model.CountDocuments(c, normaliseFilter(filter))
	if err != nil {
		logger.Error("mongo error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return count, nil
}

func (repo *MongoRepository[T]) UpdatePartialByID(id string, payload map[string]interface{}) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	payload["updatedAt"] = time.Now()
	result, err := repo.Model.UpdateOne(c, bson.M{"_id": id}, bson.M{"$set": payload})
	if err != nil {
		logger.Error("mongo error occured while running UpdatePartialByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (repo *MongoRepository[T]) DeleteByID(id string) (int64, error) {
	c, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := repo.Model.DeleteOne(c, bson.M{"_id": id})
	if err != nil {
		logger.Error("mongo error occured while running DeleteByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return result.DeletedCount, nil
}

func normaliseFilter(filter map[string]interface{}) bson.M {
	parsed := bson.M{}
	for key, value := range filter {
		parsed[key] = value
	}
	return parsed
}
