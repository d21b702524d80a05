package mongo

import (
	"context"
	"sort"

	"fitcoach/assistant-app/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollectionName = "vector_counters"

// vectorDoc is the persisted shape of one store.Record.
type vectorDoc struct {
	ID       string            `bson:"_id"`
	Vector   []float64         `bson:"vector"`
	Text     string            `bson:"text"`
	Metadata map[string]string `bson:"metadata,omitempty"`
	Seq      int64             `bson:"seq"`
}

// mongoDocumentStore implements store.DocumentStore on top of MongoDB.
// Similarity search is brute-force cosine over the collection, which
// is fine for a corpus bounded by weeks x days x categories.
type mongoDocumentStore struct {
	db       *mongo.Database
	counters *mongo.Collection
}

// NewMongoDocumentStore creates a DocumentStore persisted in the given
// database. Each corpus collection maps to one MongoDB collection.
func NewMongoDocumentStore(db *mongo.Database) store.DocumentStore {
	return &mongoDocumentStore{
		db:       db,
		counters: db.Collection(countersCollectionName),
	}
}

func (s *mongoDocumentStore) coll(name string) (*mongo.Collection, error) {
	if !store.KnownCollection(name) {
		return nil, store.ErrUnknownCollection
	}
	return s.db.Collection(name), nil
}

// nextSeq reserves n insertion-order slots and returns the first one.
func (s *mongoDocumentStore) nextSeq(ctx context.Context, n int64) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "seq"},
		bson.M{"$inc": bson.M{"value": n}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value - n + 1, nil
}

func (s *mongoDocumentStore) Upsert(ctx context.Context, name string, rec store.Record) error {
	return s.UpsertBatch(ctx, name, []store.Record{rec})
}

func (s *mongoDocumentStore) UpsertBatch(ctx context.Context, name string, recs []store.Record) error {
	coll, err := s.coll(name)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	first, err := s.nextSeq(ctx, int64(len(recs)))
	if err != nil {
		return err
	}
	models := make([]mongo.WriteModel, 0, len(recs))
	for i, rec := range recs {
		// $setOnInsert keeps the original seq when a record is
		// overwritten, so ranking ties stay stable across reloads.
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": rec.ID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"vector":   rec.Vector,
					"text":     rec.Text,
					"metadata": rec.Metadata,
				},
				"$setOnInsert": bson.M{"seq": first + int64(i)},
			}).
			SetUpsert(true))
	}
	_, err = coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *mongoDocumentStore) Get(ctx context.Context, name string, ids []string) ([]store.Record, error) {
	coll, err := s.coll(name)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []vectorDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]store.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, recordFromDoc(d))
	}
	return records, nil
}

func (s *mongoDocumentStore) Query(ctx context.Context, name string, vector []float64, k int) ([]store.ScoredRecord, error) {
	docs, err := s.dumpDocs(ctx, name)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}
	scored := make([]store.ScoredRecord, 0, len(docs))
	for _, d := range docs {
		scored = append(scored, store.ScoredRecord{
			Record: recordFromDoc(d),
			Score:  store.CosineSimilarity(d.Vector, vector),
		})
	}
	// docs arrive seq-ordered; a stable sort preserves that order
	// among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func (s *mongoDocumentStore) Dump(ctx context.Context, name string) ([]store.Record, error) {
	docs, err := s.dumpDocs(ctx, name)
	if err != nil {
		return nil, err
	}
	records := make([]store.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, recordFromDoc(d))
	}
	return records, nil
}

func (s *mongoDocumentStore) dumpDocs(ctx context.Context, name string) ([]vectorDoc, error) {
	coll, err := s.coll(name)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []vectorDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *mongoDocumentStore) Count(ctx context.Context, name string) (int64, error) {
	coll, err := s.coll(name)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

func recordFromDoc(d vectorDoc) store.Record {
	return store.Record{ID: d.ID, Vector: d.Vector, Text: d.Text, Metadata: d.Metadata}
}

// EnsureVectorIndexes creates the seq index used for insertion-order
// dumps on every corpus collection.
func EnsureVectorIndexes(ctx context.Context, db *mongo.Database) {
	for _, name := range store.Collections {
		_, _ = db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "seq", Value: 1}},
			Options: options.Index(),
		})
	}
}
