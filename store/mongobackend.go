package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoBackend is the production Backend, a thin wrapper over a single
// mongo-driver/v2 collection. Every tree type lives in the same collection,
// discriminated by the "type" field, matching original_source/yrest/mongo.py's
// single-collection layout.
type mongoBackend struct {
	coll *mongo.Collection
}

// NewMongoBackend returns a Backend backed by coll.
func NewMongoBackend(coll *mongo.Collection) Backend {
	return &mongoBackend{coll: coll}
}

func (m *mongoBackend) FindOne(ctx context.Context, filter bson.M, sort bson.D) (bson.M, error) {
	opts := options.FindOne()
	if sort != nil {
		opts.SetSort(sort)
	}
	var doc bson.M
	err := m.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *mongoBackend) Find(ctx context.Context, filter bson.M, sort bson.D) ([]bson.M, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cur, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *mongoBackend) FindByPathPrefix(ctx context.Context, prefix string) ([]bson.M, error) {
	filter := bson.M{"path": bson.M{"$regex": "^" + regexpEscape(prefix)}}
	return m.Find(ctx, filter, nil)
}

func (m *mongoBackend) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	cur, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// BulkWrite runs every op inside one session transaction, per spec.md
// §4.3.1's "single batched write... one transaction" requirement.
func (m *mongoBackend) BulkWrite(ctx context.Context, ops []WriteOp) error {
	session, err := m.coll.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
		models := make([]mongo.WriteModel, 0, len(ops))
		for _, op := range ops {
			switch op.Kind {
			case OpInsert:
				models = append(models, mongo.NewInsertOneModel().SetDocument(op.Doc))
			case OpUpdateByID:
				models = append(models, mongo.NewUpdateOneModel().
					SetFilter(bson.M{"_id": op.ID}).
					SetUpdate(bson.M{"$set": op.Set}))
			case OpDeleteByID:
				models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": op.ID}))
			case OpDeleteByPathPrefix:
				models = append(models, mongo.NewDeleteManyModel().
					SetFilter(bson.M{"path": bson.M{"$regex": "^" + regexpEscape(op.PathPrefix)}}))
			default:
				return nil, fmt.Errorf("store: unknown write op kind %d", op.Kind)
			}
		}
		if len(models) == 0 {
			return nil, nil
		}
		_, err := m.coll.BulkWrite(sc, models)
		return nil, err
	})
	return err
}

// EnsureIndexes creates the indexes spec.md §6 requires: a unique
// (path, slug) compound index, a TTL index on created_at for
// password-reset-token expiry, and an index on type for fast scans.
func (m *mongoBackend) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "path", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"slug": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(1800).SetPartialFilterExpression(bson.M{"created_at": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
	})
	return err
}

// regexpEscape escapes s for use inside a MongoDB $regex prefix match.
func regexpEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
