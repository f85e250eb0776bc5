package recordsRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"roomm8/models"
)

const CollectionName = "checkout_records"

// CheckoutRecordRepository stores the receipts of completed checkouts.
type CheckoutRecordRepository interface {
	Create(ctx context.Context, record models.CheckoutRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.CheckoutRecord, error)
	ListByUser(ctx context.Context, userEmail string, limit int64) ([]models.CheckoutRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a CheckoutRecordRepository backed by coll.
func NewMongoRecordRepo(coll *mongo.Collection) CheckoutRecordRepository {
	return &mongoRecordRepo{coll: coll}
}
