package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
)

// BidRepository is a MongoDB implementation of repository.BidRepository.
type BidRepository struct {
	coll *mongo.Collection
}

// NewBidRepository creates a new MongoDB bid repository.
func NewBidRepository(db *mongo.Database) *BidRepository {
	return &BidRepository{coll: db.Collection(bidsCollection)}
}

// Create persists a bid. The (orderId, driverId) index rejects repeat bids.
func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	_, err := r.coll.InsertOne(ctx, toBidDocument(bid))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

// List returns bids matching the filter, newest first.
func (r *BidRepository) List(ctx context.Context, filter repository.BidFilter) ([]*domain.Bid, error) {
	query := bson.M{}
	if filter.OrderID != "" {
		query["orderId"] = filter.OrderID
	}
	if filter.DriverID != "" {
		query["driverId"] = filter.DriverID
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bids []*domain.Bid
	for cursor.Next(ctx) {
		var doc bidDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		bids = append(bids, doc.toDomain())
	}
	return bids, cursor.Err()
}
