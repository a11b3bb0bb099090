package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	KnowledgeBasesCollection = "knowledge_bases"
	LabyrinthsCollection     = "labyrinths"
)

// DefaultDatabase is used when MongoConfig.Database is empty.
const DefaultDatabase = "labyrinth"

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore keeps records in MongoDB.
type MongoStore struct {
	client     *mongo.Client
	kbs        *mongo.Collection
	labyrinths *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: empty connection URI")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return &MongoStore{
		client:     client,
		kbs:        db.Collection(KnowledgeBasesCollection),
		labyrinths: db.Collection(LabyrinthsCollection),
	}, nil
}

// Init creates the list indexes. Creating an existing index is a no-op.
func (s *MongoStore) Init(ctx context.Context) error {
	_, err := s.labyrinths.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "knowledge_base_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create labyrinth indexes: %w", err)
	}
	return nil
}

// Clear drops both collections.
func (s *MongoStore) Clear(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.kbs, s.labyrinths} {
		if err := c.Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", c.Name(), err)
		}
	}
	return nil
}

// CreateKnowledgeBase inserts kb, assigning an ID if it has none.
func (s *MongoStore) CreateKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error {
	prepare(&kb.ID, &kb.CreatedAt)
	if _, err := s.kbs.InsertOne(ctx, kb); err != nil {
		return fmt.Errorf("insert knowledge base: %w", err)
	}
	return nil
}

// GetKnowledgeBase looks up a knowledge base.
func (s *MongoStore) GetKnowledgeBase(ctx context.Context, id string) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := s.kbs.FindOne(ctx, bson.M{"_id": id}).Decode(&kb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("knowledge base", id)
		}
		return nil, fmt.Errorf("find knowledge base: %w", err)
	}
	return &kb, nil
}

// SaveLabyrinth upserts l, assigning an ID if it has none.
func (s *MongoStore) SaveLabyrinth(ctx context.Context, l *Labyrinth) error {
	prepare(&l.ID, &l.CreatedAt)
	_, err := s.labyrinths.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save labyrinth: %w", err)
	}
	return nil
}

// GetLabyrinth looks up a labyrinth.
func (s *MongoStore) GetLabyrinth(ctx context.Context, id string) (*Labyrinth, error) {
	var l Labyrinth
	if err := s.labyrinths.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("labyrinth", id)
		}
		return nil, fmt.Errorf("find labyrinth: %w", err)
	}
	return &l, nil
}

// ListLabyrinths returns records newest first.
func (s *MongoStore) ListLabyrinths(ctx context.Context, opts ListOptions) ([]Labyrinth, error) {
	filter := bson.M{}
	if opts.KnowledgeBaseID != "" {
		filter["knowledge_base_id"] = opts.KnowledgeBaseID
	}
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit()))

	cur, err := s.labyrinths.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("list labyrinths: %w", err)
	}
	out := []Labyrinth{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode labyrinths: %w", err)
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
