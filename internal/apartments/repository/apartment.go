package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	apartmenterrors "domus/internal/apartments/errors"
	"domus/pkg/config"
	mongotx "domus/pkg/db/mongo"
	"domus/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Apartments"
)

type mongoApartmentRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ApartmentRepository interface {
	Create(ctx context.Context, a *model.Apartment) error
	FindByID(ctx context.Context, id string) (*model.Apartment, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Apartment, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*model.Apartment, error)
	Update(ctx context.Context, id string, a *model.Apartment) (*mongo.UpdateResult, error)
	UpdateTimeSlots(ctx context.Context, id string, slots map[string]map[string]bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoApartmentRepository(cfg *config.Config) ApartmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoApartmentRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoApartmentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoApartmentRepository) Create(ctx context.Context, a *model.Apartment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	a.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to create apartment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

func (r *mongoApartmentRepository) FindByID(ctx context.Context, id string) (*model.Apartment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apartmenterrors.ErrInvalidID, id)
	}

	var a model.Apartment
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", apartmenterrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find apartment: %w", err)
	}

	return &a, nil
}

func (r *mongoApartmentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Apartment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query apartments: %w", err)
	}
	defer cursor.Close(ctx)

	var apartments []*model.Apartment
	if err = cursor.All(ctx, &apartments); err != nil {
		return nil, fmt.Errorf("failed to decode apartments: %w", err)
	}
	return apartments, nil
}

func (r *mongoApartmentRepository) FindBySeller(ctx context.Context, sellerID string) ([]*model.Apartment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query apartments by seller: %w", err)
	}
	defer cursor.Close(ctx)

	var apartments []*model.Apartment
	if err = cursor.All(ctx, &apartments); err != nil {
		return nil, fmt.Errorf("failed to decode apartments: %w", err)
	}
	return apartments, nil
}

func (r *mongoApartmentRepository) Update(ctx context.Context, id string, a *model.Apartment) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apartmenterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"location_name":   a.LocationName,
			"price":           a.Price,
			"square_meters":   a.SquareMeters,
			"number_of_rooms": a.NumberOfRooms,
			"phone":           a.Phone,
			"latitude":        a.Latitude,
			"longitude":       a.Longitude,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update apartment: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", apartmenterrors.ErrNotFound, id)
	}
	return result, nil
}

func (r *mongoApartmentRepository) UpdateTimeSlots(ctx context.Context, id string, slots map[string]map[string]bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", apartmenterrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"time_slots": slots}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update time slots: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", apartmenterrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoApartmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", apartmenterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete apartment: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", apartmenterrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoApartmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count apartments: %w", err)
	}
	return count, nil
}

func (r *mongoApartmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
