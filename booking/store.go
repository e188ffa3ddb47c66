package booking

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

// Store persists bookings.
type Store interface {
	Create(ctx context.Context, b *Booking) (string, error)
	// FindAll returns every booking, newest first.
	FindAll(ctx context.Context) ([]Booking, error)
	FindByID(ctx context.Context, id string) (*Booking, error)
	// UpdateByID sets the given fields if the stored revision still equals
	// revision, bumps it and returns the updated booking. A stale revision
	// yields ErrConflict.
	UpdateByID(ctx context.Context, id string, revision int, set Fields) (*Booking, error)
	DeleteByID(ctx context.Context, id string) error
}

type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, timeout: 5 * time.Second, now: time.Now}
}

// EnsureIndexes creates the createdAt index used by FindAll.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, b *Booking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b.ID = uuid.New().String()
	b.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	b.Revision = 1
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return b.ID, nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	bookings := []Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b Booking
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return &b, nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, revision int, set Fields) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.M{}
	for k, v := range set {
		if k == "_id" || k == "createdAt" || k == "revision" {
			continue
		}
		update[k] = v
	}
	if len(update) == 0 {
		return s.FindByID(ctx, id)
	}

	filter := bson.M{"_id": id, "revision": revision}
	change := bson.M{"$set": update, "$inc": bson.M{"revision": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b Booking
	err := s.coll.FindOneAndUpdate(ctx, filter, change, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// either gone or changed under us
		if _, ferr := s.FindByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	return &b, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
