package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection holding snapshots.
const MongoCollection = "snapshots"

// MongoStore keeps one document per snapshot. Expiry is delegated to a
// TTL index on expires_at.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

type mongoDoc struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	CreatedAt time.Time  `bson:"created_at"`
	Nodes     int        `bson:"nodes"`
	Edges     int        `bson:"edges"`
	Data      []byte     `bson:"data,omitempty"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

func (d mongoDoc) snapshot() (*Snapshot, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode id %q: %w", d.ID, err)
	}
	return &Snapshot{
		ID:        id,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.UTC(),
		Nodes:     d.Nodes,
		Edges:     d.Edges,
		Data:      d.Data,
	}, nil
}

// NewMongoStore connects to uri and prepares the snapshots collection of
// database.
func NewMongoStore(ctx context.Context, uri, database string, ttl time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	err = retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(MongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, ttl: ttl}, nil
}

// Save upserts s.
func (s *MongoStore) Save(ctx context.Context, snap *Snapshot) error {
	doc := mongoDoc{
		ID:        snap.ID.String(),
		Name:      snap.Name,
		CreatedAt: snap.CreatedAt,
		Nodes:     snap.Nodes,
		Edges:     snap.Edges,
		Data:      snap.Data,
	}
	if s.ttl > 0 {
		at := time.Now().Add(s.ttl)
		doc.ExpiresAt = &at
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", snap.ID, err)
	}
	return nil
}

// Load fetches the snapshot with the given id. Documents past their
// expiry that the TTL monitor has not removed yet count as missing.
func (s *MongoStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo load %s: %w", id, err)
	}
	if doc.ExpiresAt != nil && time.Now().After(*doc.ExpiresAt) {
		return nil, notFound(id)
	}
	return doc.snapshot()
}

// List returns summaries sorted by creation time.
func (s *MongoStore) List(ctx context.Context) ([]*Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	now := time.Now()
	out := make([]*Snapshot, 0, len(docs))
	for _, d := range docs {
		if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
			continue
		}
		snap, err := d.snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the snapshot document.
func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
