package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/pkg/database"
	"github.com/shashiranjanraj/tailorcraft/pkg/metrics"
)

// CustomerRepository handles database operations for Customer. Every filter
// includes the owning tailor's ID.
type CustomerRepository struct {
	coll *mongo.Collection
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{coll: database.Collection("customers")}
}

func ownerFilter(tailorID string, extra bson.M) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(tailorID)
	if err != nil {
		return nil, ErrNotFound
	}
	filter := bson.M{"tailorId": oid}
	for k, v := range extra {
		filter[k] = v
	}
	return filter, nil
}

// ListByTailor returns all of a tailor's customers, newest first.
func (r *CustomerRepository) ListByTailor(ctx context.Context, tailorID string) ([]models.Customer, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter, err := ownerFilter(tailorID, nil)
	if err != nil {
		return nil, err
	}

	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var customers []models.Customer
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID returns one customer, only if it belongs to tailorID.
func (r *CustomerRepository) FindByID(ctx context.Context, tailorID, id string) (models.Customer, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Customer{}, ErrNotFound
	}
	filter, err := ownerFilter(tailorID, bson.M{"_id": oid})
	if err != nil {
		return models.Customer{}, err
	}

	var customer models.Customer
	err = r.coll.FindOne(ctx, filter).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Customer{}, ErrNotFound
	}
	return customer, err
}

// Create persists a new customer owned by tailorID.
func (r *CustomerRepository) Create(ctx context.Context, tailorID string, customer *models.Customer) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	oid, err := primitive.ObjectIDFromHex(tailorID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	customer.TailorID = oid
	customer.CreatedAt = now
	customer.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, customer)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		customer.ID = id
	}
	return nil
}

// Update replaces a customer's mutable fields, only when owned by tailorID.
func (r *CustomerRepository) Update(ctx context.Context, tailorID, id string, customer *models.Customer) (models.Customer, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Customer{}, ErrNotFound
	}
	filter, err := ownerFilter(tailorID, bson.M{"_id": oid})
	if err != nil {
		return models.Customer{}, err
	}

	update := bson.M{"$set": bson.M{
		"name":             customer.Name,
		"phone":            customer.Phone,
		"email":            customer.Email,
		"address":          customer.Address,
		"orderDate":        customer.OrderDate,
		"collectionDate":   customer.CollectionDate,
		"amount":           customer.Amount,
		"advanceAmount":    customer.AdvanceAmount,
		"paymentStatus":    customer.PaymentStatus,
		"status":           customer.Status,
		"measurements":     customer.Measurements,
		"measurementNotes": customer.MeasurementNotes,
		"updatedAt":        time.Now(),
	}}

	var updated models.Customer
	err = r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Customer{}, ErrNotFound
	}
	return updated, err
}

// AddPhotoKey appends a storage object key to the customer's photo list.
func (r *CustomerRepository) AddPhotoKey(ctx context.Context, tailorID, id, key string) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter, err := ownerFilter(tailorID, bson.M{"_id": oid})
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$addToSet": bson.M{"photoKeys": key},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a customer, only when owned by tailorID.
func (r *CustomerRepository) Delete(ctx context.Context, tailorID, id string) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter, err := ownerFilter(tailorID, bson.M{"_id": oid})
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TailorIDs returns the distinct tailor IDs that own at least one customer.
// The reminder sweep iterates these.
func (r *CustomerRepository) TailorIDs(ctx context.Context) ([]string, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	raw, err := r.coll.Distinct(ctx, "tailorId", bson.M{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}

// CountAll returns the total number of customer records (metrics sweep).
func (r *CustomerRepository) CountAll(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery("find", time.Now())
	return r.coll.EstimatedDocumentCount(ctx)
}
