package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peerprep/interview/internal/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "interview_snapshots"

type mongoDocument struct {
	SchemaVersion string    `bson:"_id"`
	Revision      uint64    `bson:"revision"`
	Payload       string    `bson:"payload"`
	SavedAt       time.Time `bson:"saved_at"`
}

// Mongo stores the snapshot as one document keyed by schema version
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// ConnectMongo dials the server and returns a store over the snapshot collection
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return NewMongo(client, client.Database(database).Collection(mongoCollection)), nil
}

func NewMongo(client *mongo.Client, col *mongo.Collection) *Mongo {
	return &Mongo{client: client, col: col}
}

func (m *Mongo) Load(ctx context.Context) (*session.Snapshot, error) {
	var doc mongoDocument
	err := m.col.FindOne(ctx, bson.M{"_id": session.SchemaVersion}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode([]byte(doc.Payload))
}

func (m *Mongo) Save(ctx context.Context, snap *session.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	doc := mongoDocument{
		SchemaVersion: snap.SchemaVersion,
		Revision:      snap.Revision,
		Payload:       string(data),
		SavedAt:       snap.SavedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"_id": doc.SchemaVersion}, doc, opts); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (m *Mongo) Name() string { return DriverMongo }

func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
