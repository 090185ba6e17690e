package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vacanza/internal/domain/availability"
)

// BlockRepository persists availability blocks with a unique index on
// (property_id, date), so the one-block-per-day invariant holds at the
// store of record even when concurrent clients race their toggles.
// Create is an idempotent upsert on that key; delete by id is idempotent.
type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection("availability_blocks")}
}

// EnsureIndexes creates the uniqueness index. Call once at startup.
func (r *BlockRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "property_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type blockDocument struct {
	ID         string `bson:"_id"`
	PropertyID string `bson:"property_id"`
	Date       string `bson:"date"`
	Reason     string `bson:"reason"`
}

func (d blockDocument) toDomain() availability.Block {
	return availability.Block{
		ID:         d.ID,
		PropertyID: d.PropertyID,
		Date:       availability.DateKey(d.Date),
		Reason:     d.Reason,
	}
}

func (r *BlockRepository) ListBlocks(ctx context.Context, filter availability.ListFilter) ([]availability.Block, error) {
	query := bson.M{}
	if filter.PropertyID != "" {
		query["property_id"] = filter.PropertyID
	}
	opts := options.Find()
	switch filter.Sort {
	case "date":
		opts.SetSort(bson.D{{Key: "date", Value: 1}})
	case "-date":
		opts.SetSort(bson.D{{Key: "date", Value: -1}})
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var blocks []availability.Block
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		blocks = append(blocks, doc.toDomain())
	}
	return blocks, cur.Err()
}

func (r *BlockRepository) CreateBlock(ctx context.Context, propertyID string, date availability.DateKey, reason string) (availability.Block, error) {
	key := bson.M{"property_id": propertyID, "date": string(date)}
	update := bson.M{
		"$setOnInsert": bson.M{"_id": newID(), "reason": reason},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc blockDocument
	err := r.col.FindOneAndUpdate(ctx, key, update, opts).Decode(&doc)
	if err != nil {
		// Two upserts racing on the same key can trip the unique index;
		// the retry lands on the winner's document.
		if mongo.IsDuplicateKeyError(err) {
			err = r.col.FindOne(ctx, key).Decode(&doc)
		}
		if err != nil {
			return availability.Block{}, err
		}
	}
	return doc.toDomain(), nil
}

func (r *BlockRepository) DeleteBlock(ctx context.Context, id string) error {
	// Deleting an already-removed block matches zero documents, which is
	// the idempotent outcome we want.
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

var _ availability.BlockStore = (*BlockRepository)(nil)
