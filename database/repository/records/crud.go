package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomm8/models"
)

var ErrRecordNotFound = errors.New("record not found")

// Create inserts a new checkout record and returns its ID.
func (r *mongoRecordRepo) Create(ctx context.Context, record models.CheckoutRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert checkout record: %w", err)
	}
	return record.ID, nil
}

// GetByID returns a checkout record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, id string) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns a user's records, newest first.
func (r *mongoRecordRepo) ListByUser(ctx context.Context, userEmail string, limit int64) ([]models.CheckoutRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"userEmail": userEmail}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.CheckoutRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
