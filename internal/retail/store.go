// Package retail is a thin passthrough over the document store holding the
// catalog collections (products, orders, customers, suppliers, settings).
// Documents are served as-is; this subsystem owns no schema for them.
package retail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
)

// Store wraps the catalog database.
type Store struct {
	db *mongo.Database
}

// NewStore creates a Store over the named database.
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{db: client.Database(database)}
}

// Ping reports document-store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Store) listNewestFirst(ctx context.Context, collection string) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return docs, nil
}

// ListProducts returns all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]bson.M, error) {
	return s.listNewestFirst(ctx, "products")
}

// CreateProduct inserts a product document stamped with creation time.
func (s *Store) CreateProduct(ctx context.Context, doc bson.M) (bson.M, error) {
	now := time.Now()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	res, err := s.db.Collection("products").InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	doc["_id"] = res.InsertedID
	return doc, nil
}

// ListOrders returns all orders, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]bson.M, error) {
	return s.listNewestFirst(ctx, "orders")
}

// ListCustomers returns all customers, newest first.
func (s *Store) ListCustomers(ctx context.Context) ([]bson.M, error) {
	return s.listNewestFirst(ctx, "customers")
}

// ListSuppliers returns all suppliers, newest first.
func (s *Store) ListSuppliers(ctx context.Context) ([]bson.M, error) {
	return s.listNewestFirst(ctx, "suppliers")
}

// supplierFilter accepts either a raw ObjectID hex or a business supplierId.
func supplierFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"supplierId": id}
}

// GetSupplier looks a supplier up by ObjectID or supplierId.
func (s *Store) GetSupplier(ctx context.Context, id string) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection("suppliers").FindOne(ctx, supplierFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return doc, nil
}

// UpdateSupplier applies the given fields and returns the updated document.
func (s *Store) UpdateSupplier(ctx context.Context, id string, fields bson.M) (bson.M, error) {
	delete(fields, "_id")
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := s.db.Collection("suppliers").
		FindOneAndUpdate(ctx, supplierFilter(id), bson.M{"$set": fields}, opts).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return doc, nil
}

// ListSettings returns all settings documents without their object ids.
func (s *Store) ListSettings(ctx context.Context) ([]bson.M, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	cursor, err := s.db.Collection("settings").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return docs, nil
}

// UpdateSetting updates the settings document owned by userID.
func (s *Store) UpdateSetting(ctx context.Context, userID string, fields bson.M) (bson.M, error) {
	delete(fields, "_id")
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 0})
	var doc bson.M
	err := s.db.Collection("settings").
		FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": fields}, opts).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update setting: %w", err)
	}
	return doc, nil
}
