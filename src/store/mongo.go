package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores scores as documents in the dive_scores collection.
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// ConnectMongo connects to uri and prepares the ranking index.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	col := client.Database(database).Collection(Table)
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "depth", Value: -1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Mongo{client: client, col: col}, nil
}

func (m *Mongo) Insert(ctx context.Context, sub Submission) (Score, error) {
	sub, err := Validate(sub)
	if err != nil {
		return Score{}, err
	}
	score := Score{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Phone:     sub.Phone,
		Depth:     sub.Depth,
		Character: sub.Character,
		// Mongo keeps milliseconds; truncate so the returned value round-trips.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := m.col.InsertOne(ctx, score); err != nil {
		return Score{}, fmt.Errorf("insert score: %w", err)
	}
	return score, nil
}

func (m *Mongo) Top(ctx context.Context, limit int) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "depth", Value: -1}, {Key: "created_at", Value: 1}}).
		SetLimit(int64(ClampLimit(limit))).
		SetProjection(bson.M{"phone": 0})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Mongo) List(ctx context.Context, page, pageSize int) ([]Score, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	filter := bson.M{}
	opts := options.Find().SetSkip(int64((page-1)*pageSize)).SetLimit(int64(pageSize)).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list scores: %w", err)
	}
	defer cur.Close(ctx)

	items := []Score{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}
	return items, total, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
