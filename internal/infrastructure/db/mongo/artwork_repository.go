package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const collectionArtworks = "artworks"

// ArtworkRepository implements ports.ArtworkRepository using MongoDB.
type ArtworkRepository struct {
	col *mongo.Collection
}

func NewArtworkRepository(db *mongo.Database) *ArtworkRepository {
	return &ArtworkRepository{col: db.Collection(collectionArtworks)}
}

func (r *ArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrArtworkExists
		}
		return fmt.Errorf("insert artwork: %w", err)
	}
	return nil
}

// Update replaces the stored document. Sold counters are carried over by the
// caller; concurrent reservations between read and write are not merged.
func (r *ArtworkRepository) Update(ctx context.Context, a *domain.Artwork) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrArtworkExists
		}
		return fmt.Errorf("update artwork: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArtworkNotFound
	}
	return nil
}

func (r *ArtworkRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArtworkNotFound
	}
	return nil
}

func (r *ArtworkRepository) FindByID(ctx context.Context, id string) (*domain.Artwork, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ArtworkRepository) FindBySlug(ctx context.Context, slug string) (*domain.Artwork, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ArtworkRepository) findOne(ctx context.Context, filter bson.M) (*domain.Artwork, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Artwork
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtworkNotFound
		}
		return nil, fmt.Errorf("find artwork: %w", err)
	}
	return &a, nil
}

// FindByIDs returns the artworks that still exist, in no particular order.
func (r *ArtworkRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Artwork, error) {
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *ArtworkRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*domain.Artwork, error) {
	return r.findMany(ctx, bson.M{"slug": bson.M{"$in": slugs}}, nil)
}

func (r *ArtworkRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Artwork, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find artworks: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Artwork
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode artworks: %w", err)
	}
	return out, nil
}

func (r *ArtworkRepository) List(ctx context.Context, f ports.ListArtworksFilter) ([]*domain.Artwork, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := artworkListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count artworks: %w", err)
	}

	opts := pageOptions(f.Page, f.Limit).SetSort(artworkSort(f.Sort))
	items, err := r.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func artworkListFilter(f ports.ListArtworksFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeUnpublished {
		filter["published"] = true
	}
	if f.Artist != "" {
		filter["artist"] = exactInsensitive(f.Artist)
	}
	if f.Medium != "" {
		filter["medium"] = exactInsensitive(f.Medium)
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"artist": pattern},
		}
	}
	return filter
}

func exactInsensitive(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(strings.TrimSpace(s)) + "$", "$options": "i"}
}

func artworkSort(sort string) bson.D {
	switch sort {
	case ports.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case ports.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
}

func (r *ArtworkRepository) Counts(ctx context.Context) (*ports.ArtworkCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		c   ports.ArtworkCounts
		err error
	)
	if c.Total, err = r.col.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count artworks: %w", err)
	}
	if c.Published, err = r.col.CountDocuments(ctx, bson.M{"published": true}); err != nil {
		return nil, fmt.Errorf("count published artworks: %w", err)
	}
	return &c, nil
}

// ReserveEdition increments the edition's sold counter only while at least qty
// prints remain, so two checkouts cannot oversell the same run.
func (r *ArtworkRepository) ReserveEdition(ctx context.Context, artworkID string, edition domain.Edition, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id": artworkID,
		"editions": bson.M{"$elemMatch": bson.M{
			"id":   edition.ID,
			"sold": bson.M{"$lte": edition.EditionSize - qty},
		}},
	}
	update := bson.M{"$inc": bson.M{"editions.$.sold": qty}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reserve edition: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEditionSoldOut
	}
	return nil
}

func (r *ArtworkRepository) ReleaseEdition(ctx context.Context, artworkID, editionID string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id": artworkID,
		"editions": bson.M{"$elemMatch": bson.M{
			"id":   editionID,
			"sold": bson.M{"$gte": qty},
		}},
	}
	update := bson.M{"$inc": bson.M{"editions.$.sold": -qty}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("release edition: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEditionNotFound
	}
	return nil
}

func (r *ArtworkRepository) ReserveOriginal(ctx context.Context, artworkID string) error {
	return r.setOriginal(ctx, artworkID, true, false, domain.ErrOriginalSold)
}

func (r *ArtworkRepository) ReleaseOriginal(ctx context.Context, artworkID string) error {
	return r.setOriginal(ctx, artworkID, false, true, domain.ErrArtworkNotFound)
}

func (r *ArtworkRepository) setOriginal(ctx context.Context, artworkID string, from, to bool, notMatched error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": artworkID, "original_available": from},
		bson.M{"$set": bson.M{"original_available": to}},
	)
	if err != nil {
		return fmt.Errorf("update original availability: %w", err)
	}
	if res.MatchedCount == 0 {
		return notMatched
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the artworks collection.
func (r *ArtworkRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "artist", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
