package store

import (
	"context"
	"time"

	"filmflow-core/internal/db"
	"filmflow-core/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implementa Store sobre las colecciones:
// ratings, movies, watch_history, events, recommendations, model_performance.
type Mongo struct {
	ratings *mongo.Collection
	movies  *mongo.Collection
	watch   *mongo.Collection
	events  *mongo.Collection
	recs    *mongo.Collection
	evals   *mongo.Collection
}

func NewMongo() *Mongo {
	mdb := db.DB()
	return &Mongo{
		ratings: mdb.Collection("ratings"),
		movies:  mdb.Collection("movies"),
		watch:   mdb.Collection("watch_history"),
		events:  mdb.Collection("events"),
		recs:    mdb.Collection("recommendations"),
		evals:   mdb.Collection("model_performance"),
	}
}

// helpers de casteo seguro (los NDJSON importados mezclan int32/int64/float64)
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

// ---------------------- ratings ----------------------

func (s *Mongo) AllInteractions(ctx context.Context) ([]models.RatingDoc, error) {
	return s.findRatings(ctx, bson.M{})
}

func (s *Mongo) InteractionsByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return s.findRatings(ctx, bson.M{"userId": userID})
}

func (s *Mongo) findRatings(ctx context.Context, filter bson.M) ([]models.RatingDoc, error) {
	cur, err := s.ratings.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, models.RatingDoc{
			UserID:    asInt(raw["userId"]),
			MovieID:   asInt(raw["movieId"]),
			Rating:    asFloat64(raw["rating"]),
			Timestamp: asInt64(raw["timestamp"]),
		})
	}
	return out, cur.Err()
}

func (s *Mongo) UpsertRating(ctx context.Context, userID, movieID int, rating float64) error {
	_, err := s.ratings.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{"$set": bson.M{
			"rating":    rating,
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// ---------------------- catálogo ----------------------

func (s *Mongo) AllMovies(ctx context.Context) ([]models.MovieDoc, error) {
	cur, err := s.movies.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MovieDoc
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (s *Mongo) MovieByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := s.movies.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Mongo) UpdateMovie(ctx context.Context, m *models.MovieDoc) error {
	_, err := s.movies.ReplaceOne(ctx, bson.M{"movieId": m.MovieID}, m)
	return err
}

// ---------------------- historial y eventos ----------------------

func (s *Mongo) WatchHistoryByUser(ctx context.Context, userID, limit int) ([]models.WatchDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "viewedAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.watch.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WatchDoc
	for cur.Next(ctx) {
		var w models.WatchDoc
		if err := cur.Decode(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, cur.Err()
}

func (s *Mongo) InsertEvent(ctx context.Context, ev *models.UserEventDoc) error {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	_, err := s.events.InsertOne(ctx, ev)
	return err
}

func (s *Mongo) RecentEventsByUser(ctx context.Context, userID, limit int, eventTypes []string) ([]models.UserEventDoc, error) {
	filter := bson.M{
		"userId":  userID,
		"movieId": bson.M{"$gt": 0},
	}
	if len(eventTypes) > 0 {
		filter["eventType"] = bson.M{"$in": eventTypes}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserEventDoc
	for cur.Next(ctx) {
		var ev models.UserEventDoc
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, cur.Err()
}

// PopularMovieIDs agrupa eventos recientes por película, ordenado por conteo.
func (s *Mongo) PopularMovieIDs(ctx context.Context, since time.Time, limit int) ([]PopularityCount, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "timestamp", Value: bson.D{{Key: "$gte", Value: since.Unix()}}},
			{Key: "movieId", Value: bson.D{{Key: "$gt", Value: 0}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$movieId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := s.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PopularityCount
	for cur.Next(ctx) {
		var pc PopularityCount
		if err := cur.Decode(&pc); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, cur.Err()
}

func (s *Mongo) ActiveUserIDs(ctx context.Context, minInteractions, limit int) ([]int, error) {
	pipeline := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$gte", Value: minInteractions}}},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := s.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []int
	for cur.Next(ctx) {
		var doc struct {
			ID int `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.ID)
	}
	return out, cur.Err()
}

func (s *Mongo) CountEvents(ctx context.Context, eventType, strategy string, from, to time.Time) (int64, error) {
	filter := bson.M{
		"eventType": eventType,
		"timestamp": bson.M{"$gte": from.Unix(), "$lte": to.Unix()},
	}
	if strategy != "" {
		filter["strategy"] = strategy
	}
	return s.events.CountDocuments(ctx, filter)
}

// ---------------------- historial de recomendaciones ----------------------

func (s *Mongo) InsertRecommendation(ctx context.Context, rec *models.Recommendation) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.recs.InsertOne(ctx, rec)
	return err
}

// ---------------------- evaluación ----------------------

func (s *Mongo) SaveEvaluation(ctx context.Context, snap *models.EvalSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	_, err := s.evals.InsertOne(ctx, snap)
	return err
}

func (s *Mongo) RecentEvaluations(ctx context.Context, strategy string, since time.Time, limit int) ([]models.EvalSnapshot, error) {
	filter := bson.M{
		"strategy":  strategy,
		"createdAt": bson.M{"$gte": since},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.evals.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EvalSnapshot
	for cur.Next(ctx) {
		var snap models.EvalSnapshot
		if err := cur.Decode(&snap); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, cur.Err()
}
