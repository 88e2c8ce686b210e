// Package archive stores graph snapshots in MongoDB.
//
// A snapshot is the serialized graph plus counts and a label, captured at
// build time. Archiving successive revisions of a hand-curated corpus gives
// the editors a history without requiring version control on the CSV.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/calloway/intertext/pkg/graph"
)

// Snapshot is one archived graph revision.
type Snapshot struct {
	ID        string         `bson:"_id" json:"id"`
	Label     string         `bson:"label,omitempty" json:"label,omitempty"`
	Hash      string         `bson:"hash" json:"hash"`
	NodeCount int            `bson:"node_count" json:"node_count"`
	EdgeCount int            `bson:"edge_count" json:"edge_count"`
	Themes    []string       `bson:"themes,omitempty" json:"themes,omitempty"`
	Graph     graph.Document `bson:"graph" json:"graph"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}

// Store persists snapshots in a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens a MongoDB client and returns a store bound to the given
// database and collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Push archives the graph under a fresh snapshot ID and returns the snapshot.
func (s *Store) Push(ctx context.Context, g *graph.Graph, hash, label string) (Snapshot, error) {
	snap := NewSnapshot(g, hash, label)
	if _, err := s.coll.InsertOne(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns the most recent snapshots, newest first, without the full
// graph payload.
func (s *Store) List(ctx context.Context, limit int64) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.D{{Key: "graph", Value: 0}})

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var snaps []Snapshot
	if err := cur.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Get fetches a full snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&snap)
	return snap, err
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// NewSnapshot builds a snapshot document without persisting it.
// Split out so the conversion is testable without a running MongoDB.
func NewSnapshot(g *graph.Graph, hash, label string) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Label:     label,
		Hash:      hash,
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Themes:    g.Themes(),
		Graph:     graph.ToDocument(g),
		CreatedAt: time.Now().UTC(),
	}
}
