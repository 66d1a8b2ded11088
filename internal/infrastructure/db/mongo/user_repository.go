package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// mongoUser is the stored shape of an account. Roles is the array imported
// from the old role table; nothing writes it any more.
type mongoUser struct {
	ID              string     `bson:"_id"`
	Name            string     `bson:"name"`
	Email           string     `bson:"email"`
	PasswordHash    string     `bson:"password_hash"`
	Role            string     `bson:"role,omitempty"`
	Roles           []string   `bson:"roles,omitempty"`
	IsShadowBanned  bool       `bson:"is_shadow_banned"`
	ShadowBannedAt  *time.Time `bson:"shadow_banned_at,omitempty"`
	ShadowBanReason string     `bson:"shadow_ban_reason,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:              mu.ID,
		Name:            mu.Name,
		Email:           mu.Email,
		PasswordHash:    mu.PasswordHash,
		Role:            domain.Role(mu.Role),
		IsShadowBanned:  mu.IsShadowBanned,
		ShadowBannedAt:  mu.ShadowBannedAt,
		ShadowBanReason: mu.ShadowBanReason,
		CreatedAt:       mu.CreatedAt,
		UpdatedAt:       mu.UpdatedAt,
	}
	for _, r := range mu.Roles {
		u.LegacyRoles = append(u.LegacyRoles, domain.Role(r))
	}
	return u
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// List returns a page of users, newest first. The role filter matches the
// primary role as well as imported legacy roles so ambiguous accounts show up
// under both.
func (r *UserRepository) List(ctx context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := userListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := pageOptions(f.Page, f.Limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, total, nil
}

func userListFilter(f ports.ListUsersFilter) bson.M {
	var clauses bson.A
	if f.Role != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"role": f.Role},
			bson.M{"roles": f.Role},
		}})
	}
	if f.Banned != nil {
		clauses = append(clauses, bson.M{"is_shadow_banned": *f.Banned})
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}})
	}
	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": clauses}
}

// SetRole writes the single role and removes the legacy roles array.
func (r *UserRepository) SetRole(ctx context.Context, id string, role domain.Role, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"role": string(role), "updated_at": at.UTC()},
		"$unset": bson.M{"roles": ""},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetShadowBan(ctx context.Context, id string, banned bool, reason string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var update bson.M
	if banned {
		update = bson.M{"$set": bson.M{
			"is_shadow_banned":  true,
			"shadow_banned_at":  at.UTC(),
			"shadow_ban_reason": reason,
			"updated_at":        at.UTC(),
		}}
	} else {
		update = bson.M{
			"$set":   bson.M{"is_shadow_banned": false, "updated_at": at.UTC()},
			"$unset": bson.M{"shadow_banned_at": "", "shadow_ban_reason": ""},
		}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("set shadow ban: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindWithLegacyRoles(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"roles.0": bson.M{"$exists": true}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find legacy roles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Stats(ctx context.Context) (*ports.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.UserStats{ByRole: map[string]int64{}}

	var err error
	if stats.Total, err = r.col.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.Banned, err = r.col.CountDocuments(ctx, bson.M{"is_shadow_banned": true}); err != nil {
		return nil, fmt.Errorf("count banned users: %w", err)
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate roles: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  *string `bson:"_id"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode role counts: %w", err)
	}
	for _, row := range rows {
		key := "unassigned"
		if row.Role != nil && *row.Role != "" {
			key = *row.Role
		}
		stats.ByRole[key] += row.Count
	}
	return stats, nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
