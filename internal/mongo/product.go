package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

// ProductStore persists catalog documents and their embedded review lists.
type ProductStore struct {
	db *DB
}

var _ service.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a product store backed by db.
func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

// GetProduct loads a product by its catalog UUID.
func (s *ProductStore) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	err := s.db.products().FindOne(ctx, bson.M{"id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get", "failed to load product")
	}
	return &product, nil
}

// ListProducts returns catalog entries, optionally filtered by exact
// category and a case-insensitive name substring.
func (s *ProductStore) ListProducts(ctx context.Context, category, search string) ([]domain.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
	}

	cursor, err := s.db.products().Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to decode products")
	}
	return products, nil
}

// InsertProduct stores a new catalog document.
func (s *ProductStore) InsertProduct(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Reviews == nil {
		product.Reviews = []domain.Review{}
	}

	if _, err := s.db.products().InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("catalog.insert", "product id already exists")
		}
		return domain.Internal(err, "catalog.insert", "failed to create product")
	}
	return nil
}

// DeleteProduct removes a catalog document. Cart lines referencing it keep
// their denormalized snapshot; carts and catalog are never coordinated.
func (s *ProductStore) DeleteProduct(ctx context.Context, productID string) error {
	res, err := s.db.products().DeleteOne(ctx, bson.M{"id": productID})
	if err != nil {
		return domain.Internal(err, "catalog.delete", "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("catalog.delete", "product", productID)
	}
	return nil
}

// AppendReview pushes a review onto the product's append-only review list.
func (s *ProductStore) AppendReview(ctx context.Context, productID string, review domain.Review) error {
	review.CreatedAt = time.Now().UTC()

	res, err := s.db.products().UpdateOne(ctx,
		bson.M{"id": productID},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return domain.Internal(err, "review.append", "failed to append review")
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
