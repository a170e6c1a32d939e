package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrInvalidRating   = &Error{Code: EINVALID, Message: "Rating must be between 1 and 5"}
)

// Product is a catalog document. The catalog-facing identifier is ID (a UUID
// string assigned at creation); the Mongo ObjectID is storage-internal and
// never used as a cart line key.
type Product struct {
	OID              primitive.ObjectID `bson:"_id,omitempty"`
	ID               string             `bson:"id"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description,omitempty"`
	PriceCents       int64              `bson:"price_cents"`
	Category         string             `bson:"category"`
	ImageURL         string             `bson:"image_url,omitempty"`
	AdditionalImages []string           `bson:"additional_images,omitempty"`
	Reviews          []Review           `bson:"reviews"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

// Review is an append-only entry in a product's review list. There is no
// update or delete path.
type Review struct {
	User      string    `bson:"user"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"created_at"`
}

// Snapshot captures the denormalized display fields used when the product is
// added to a cart. Quantity starts at 1.
func (p *Product) Snapshot() CartLine {
	return CartLine{
		ProductID:  p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		ImageURL:   p.ImageURL,
		Category:   p.Category,
		Quantity:   1,
	}
}
