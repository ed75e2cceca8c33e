package persistence

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type mongoOwnerRepo struct {
	col    *mongo.Collection
	logger logger.Logger
}

func NewMongoOwnerRepo(db *mongo.Database, log logger.Logger) owner.Repository {
	return &mongoOwnerRepo{col: db.Collection(ownersCollection), logger: log}
}

func (r *mongoOwnerRepo) Create(ctx context.Context, o *owner.Owner) error {
	doc := toOwnerDocument(o)
	doc.Version = 1

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflict("User", "email", o.Email)
		}
		r.logger.Error("Failed to insert owner", err, zap.String("owner_id", doc.ID))
		return apperror.NewInternal("insert owner failed", err)
	}
	o.Version = 1
	return nil
}

func (r *mongoOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*owner.Owner, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, nil, "User", id.String())
}

func (r *mongoOwnerRepo) FindByEmail(ctx context.Context, email string) (*owner.Owner, error) {
	email = owner.NormalizeEmail(email)
	return r.findOne(ctx, bson.M{"email": email}, nil, "User", email)
}

func (r *mongoOwnerRepo) FindAnyComplete(ctx context.Context) (*owner.Owner, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"profile_complete": true}, opts, "Profile", "profile_complete=true")
}

func (r *mongoOwnerRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions, resource, ident string) (*owner.Owner, error) {
	if opts == nil {
		opts = options.FindOne()
	}

	var doc ownerDocument
	err := r.col.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound(resource, ident)
	}
	if err != nil {
		r.logger.Error("Failed to find owner", err, zap.String("identifier", ident))
		return nil, apperror.NewInternal("find owner failed", err)
	}

	o, err := doc.toDomain()
	if err != nil {
		return nil, apperror.NewInternal("decode owner failed", err)
	}
	return o, nil
}

func (r *mongoOwnerRepo) ListComplete(ctx context.Context) ([]*owner.Owner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"profile_complete": true}, opts)
}

func (r *mongoOwnerRepo) Search(ctx context.Context, q owner.SearchQuery) ([]*owner.Owner, int64, error) {
	filter := bson.M{"profile_complete": true}
	if text := strings.TrimSpace(q.Text); text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"education": re},
			bson.M{"skills": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count owners", err)
		return nil, 0, apperror.NewInternal("count owners failed", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	owners, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return owners, total, nil
}

func (r *mongoOwnerRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*owner.Owner, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query owners", err)
		return nil, apperror.NewInternal("query owners failed", err)
	}
	defer cur.Close(ctx)

	var docs []ownerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperror.NewInternal("decode owners failed", err)
	}

	out := make([]*owner.Owner, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, apperror.NewInternal("decode owner failed", err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *mongoOwnerRepo) Save(ctx context.Context, o *owner.Owner) error {
	doc := toOwnerDocument(o)
	doc.Version = o.Version + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": o.Version}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflict("User", "email", o.Email)
		}
		r.logger.Error("Failed to replace owner", err, zap.String("owner_id", doc.ID))
		return apperror.NewInternal("save owner failed", err)
	}

	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": doc.ID})
		if err != nil {
			return apperror.NewInternal("save owner failed", err)
		}
		if n == 0 {
			return apperror.NewNotFound("User", doc.ID)
		}
		return owner.ErrVersionConflict
	}

	o.Version = doc.Version
	return nil
}
