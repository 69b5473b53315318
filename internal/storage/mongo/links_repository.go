package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/IgorGrieder/short-links/internal/infrastructure/db"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	linksCollection    = "short_links"
	countersCollection = "counters"
)

// LinksRepository stores links with integer ids drawn from a counters
// document, so ids look the same as the PostgreSQL SERIAL ones.
type LinksRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

type linkDoc struct {
	ID          int64     `bson:"_id"`
	Code        string    `bson:"code"`
	OriginalURL string    `bson:"original_url"`
	CreatedAt   time.Time `bson:"created_at"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func NewLinksRepository(ctx context.Context, m *db.Mongo) (*LinksRepository, error) {
	if m == nil || m.Database == nil {
		return nil, errors.New("mongo database is nil")
	}
	repo := &LinksRepository{
		coll:     m.Collection(linksCollection),
		counters: m.Collection(countersCollection),
		now:      time.Now,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_code"),
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

// Insert relies on the uniq_code index. A rejected insert burns its id, the
// same way a failed SERIAL insert does.
func (r *LinksRepository) Insert(ctx context.Context, link *links.ShortLink) error {
	if link == nil {
		return errors.New("link is nil")
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := linkDoc{
		ID:          id,
		Code:        link.Code,
		OriginalURL: link.OriginalURL,
		CreatedAt:   r.now().UTC().Truncate(time.Millisecond),
	}
	_, err = r.coll.InsertOne(ctx, doc)
	if err == nil {
		link.ID = doc.ID
		link.CreatedAt = doc.CreatedAt
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return links.ErrCodeInUse
	}
	return err
}

func (r *LinksRepository) FindByCode(ctx context.Context, code string) (*links.ShortLink, error) {
	var doc linkDoc
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, links.ErrNotFound
	}
	return nil, err
}

func (r *LinksRepository) List(ctx context.Context) ([]links.ShortLink, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []links.ShortLink{}
	for cur.Next(ctx) {
		var doc linkDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LinksRepository) nextID(ctx context.Context) (int64, error) {
	var doc counterDoc
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": linksCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (d linkDoc) toDomain() *links.ShortLink {
	return &links.ShortLink{
		ID:          d.ID,
		Code:        d.Code,
		OriginalURL: d.OriginalURL,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}
