package magiclink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "magic_link_tokens"

type mongoToken struct {
	ID        string     `bson:"_id"`
	Email     string     `bson:"email"`
	Token     string     `bson:"token"`
	ExpiresAt time.Time  `bson:"expires_at"`
	UsedAt    *time.Time `bson:"used_at"`
	CreatedAt time.Time  `bson:"created_at"`
}

// MongoRepository stores tokens in a MongoDB collection. Consume uses
// FindOneAndUpdate with the redeemability conditions in the filter, which
// is the document-store form of the conditional UPDATE.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository on db.collection.
func NewMongoRepository(db *mongo.Database, collection string) *MongoRepository {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoRepository{coll: db.Collection(collection)}
}

// EnsureIndexes creates the unique token index and the expiry index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create magic link indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Insert(ctx context.Context, t *Token) error {
	_, err := r.coll.InsertOne(ctx, mongoToken{
		ID:        t.ID.String(),
		Email:     t.Email,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		UsedAt:    t.UsedAt,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("insert magic link token: %w", err)
	}
	return nil
}

func (r *MongoRepository) Consume(ctx context.Context, token string, now time.Time) (*Token, error) {
	filter := bson.M{
		"token":      token,
		"used_at":    nil,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"used_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoToken
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("consume magic link token: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode magic link id: %w", err)
	}
	return &Token{
		ID:        id,
		Email:     doc.Email,
		Token:     doc.Token,
		ExpiresAt: doc.ExpiresAt,
		UsedAt:    doc.UsedAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *MongoRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"$or": bson.A{
			bson.M{"used_at": bson.M{"$ne": nil}},
			bson.M{"expires_at": bson.M{"$lte": now}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("delete stale magic link tokens: %w", err)
	}
	return res.DeletedCount, nil
}
