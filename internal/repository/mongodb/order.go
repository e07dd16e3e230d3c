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

// OrderRepository is a MongoDB implementation of repository.OrderRepository.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new MongoDB order repository.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	_, err := r.coll.InsertOne(ctx, toOrderDocument(order))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var doc orderDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns orders matching the filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return r.find(ctx, filter, int64(filter.EffectiveLimit()))
}

// ListAll returns every order matching the filter, newest first.
func (r *OrderRepository) ListAll(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return r.find(ctx, filter, 0)
}

// find runs the filtered query. A zero limit means no limit.
func (r *OrderRepository) find(ctx context.Context, filter repository.OrderFilter, limit int64) ([]*domain.Order, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.CreatedBy != "" {
		query["createdBy"] = filter.CreatedBy
	}
	if filter.AssignedDriver != "" {
		query["assignedDriver"] = filter.AssignedDriver
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, doc.toDomain())
	}
	return orders, cursor.Err()
}

// CompareAndAssign assigns the order to driverID iff it is still in the expected status.
func (r *OrderRepository) CompareAndAssign(ctx context.Context, id string, expected domain.OrderStatus, driverID string) (bool, error) {
	filter := bson.M{"_id": id, "status": string(expected)}
	update := bson.M{"$set": bson.M{
		"status":         string(domain.OrderStatusAssigned),
		"assignedDriver": driverID,
		"updatedAt":      time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return r.swapped(ctx, result, id)
}

// CompareAndSetStatus moves the order between statuses iff it is in `from` and assigned to driverID.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id, driverID string, from, to domain.OrderStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": string(from), "assignedDriver": driverID}
	update := bson.M{"$set": bson.M{
		"status":    string(to),
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return r.swapped(ctx, result, id)
}

// UpdateChatID stores the chat linking customer and driver.
func (r *OrderRepository) UpdateChatID(ctx context.Context, id, chatID string) error {
	update := bson.M{"$set": bson.M{"chatId": chatID, "updatedAt": time.Now().UTC()}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// swapped interprets a conditional update. No match means either the guard
// failed or the order does not exist.
func (r *OrderRepository) swapped(ctx context.Context, result *mongo.UpdateResult, id string) (bool, error) {
	if result.MatchedCount > 0 {
		return true, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}
