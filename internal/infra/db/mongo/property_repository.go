package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vacanza/internal/domain/property"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

type propertyDocument struct {
	ID            string   `bson:"_id"`
	Title         string   `bson:"title"`
	Location      string   `bson:"location"`
	Capacity      int      `bson:"capacity"`
	PricePerNight float64  `bson:"price_per_night"`
	CoverImageURL string   `bson:"cover_image_url"`
	GalleryURLs   []string `bson:"gallery_urls"`
	Amenities     []string `bson:"amenities"`
	OwnerEmail    string   `bson:"owner_email"`
	CreatedAt     int64    `bson:"created_at"`
	UpdatedAt     int64    `bson:"updated_at"`
}

func newPropertyDocument(p *property.Property) propertyDocument {
	return propertyDocument{
		ID:            p.ID,
		Title:         p.Title,
		Location:      p.Location,
		Capacity:      p.Capacity,
		PricePerNight: p.PricePerNight,
		CoverImageURL: p.CoverImageURL,
		GalleryURLs:   p.GalleryURLs,
		Amenities:     p.Amenities,
		OwnerEmail:    p.OwnerEmail,
		CreatedAt:     p.CreatedAt.UnixMilli(),
		UpdatedAt:     p.UpdatedAt.UnixMilli(),
	}
}

func (d propertyDocument) toDomain() *property.Property {
	return &property.Property{
		ID:            d.ID,
		Title:         d.Title,
		Location:      d.Location,
		Capacity:      d.Capacity,
		PricePerNight: d.PricePerNight,
		CoverImageURL: d.CoverImageURL,
		GalleryURLs:   d.GalleryURLs,
		Amenities:     d.Amenities,
		OwnerEmail:    d.OwnerEmail,
		CreatedAt:     time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:     time.UnixMilli(d.UpdatedAt).UTC(),
	}
}

func (r *PropertyRepository) ByID(ctx context.Context, id string) (*property.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, property.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PropertyRepository) ListProperties(ctx context.Context, filter property.Filter) ([]*property.Property, error) {
	query := bson.M{}
	if filter.OwnerEmail != "" {
		query["owner_email"] = filter.OwnerEmail
	}
	if filter.MinCapacity > 0 {
		query["capacity"] = bson.M{"$gte": filter.MinCapacity}
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": filter.Location, "$options": "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var props []*property.Property
	for cur.Next(ctx) {
		var doc propertyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		props = append(props, doc.toDomain())
	}
	return props, cur.Err()
}

func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	doc := newPropertyDocument(p)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func newID() string { return uuid.NewString() }

var _ property.Store = (*PropertyRepository)(nil)
