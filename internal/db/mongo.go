package db

import (
	"context"
	"log"
	"time"

	"filmflow-core/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

func InitMongo(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("[mongo] error conectando: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("[mongo] ping falló: %v", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDB)
	log.Printf("[mongo] conectado a %s / DB=%s\n", cfg.MongoURI, cfg.MongoDB)

	if err := ensureIndexes(ctx, mongoDB); err != nil {
		// la app funciona sin índices, solo más lenta
		log.Printf("[mongo] no se pudieron crear los índices: %v", err)
	}
}

// ensureIndexes crea los índices de las consultas calientes: el rebuild de
// matrices, la ventana de popularidad y las métricas online.
func ensureIndexes(ctx context.Context, mdb *mongo.Database) error {
	ratingKey := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := mdb.Collection("ratings").Indexes().CreateOne(ctx, ratingKey); err != nil {
		return err
	}

	eventIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	if _, err := mdb.Collection("events").Indexes().CreateMany(ctx, eventIdx); err != nil {
		return err
	}

	evalIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "strategy", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	_, err := mdb.Collection("model_performance").Indexes().CreateOne(ctx, evalIdx)
	return err
}

func DB() *mongo.Database {
	return mongoDB
}
