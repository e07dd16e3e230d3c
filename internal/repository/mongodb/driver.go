package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
)

// DriverRepository is a MongoDB implementation of repository.DriverRepository.
type DriverRepository struct {
	coll *mongo.Collection
}

// NewDriverRepository creates a new MongoDB driver repository.
func NewDriverRepository(db *mongo.Database) *DriverRepository {
	return &DriverRepository{coll: db.Collection(driversCollection)}
}

// Create persists a new driver. A second profile for the same user is a conflict.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	_, err := r.coll.InsertOne(ctx, toDriverDocument(driver))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

// GetByUserID retrieves the driver profile owned by a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	return r.getOne(ctx, bson.M{"userId": userID})
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var drivers []*domain.Driver
	for cursor.Next(ctx) {
		var doc driverDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		drivers = append(drivers, doc.toDomain())
	}
	return drivers, cursor.Err()
}

// Update replaces the driver's routes and cargo volumes.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	doc := toDriverDocument(driver)
	update := bson.M{"$set": bson.M{
		"priorityDirections": doc.PriorityDirections,
		"excludedDirections": doc.ExcludedDirections,
		"cargoVolumes":       doc.CargoVolumes,
		"updatedAt":          time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": driver.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DriverRepository) getOne(ctx context.Context, filter bson.M) (*domain.Driver, error) {
	var doc driverDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}
