package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

// DefaultCollection is the archive collection of deleted orders.
const DefaultCollection = "deleted_order"

var _ ports.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore appends archive documents to a MongoDB collection.
type ArchiveStore struct {
	collection *mongo.Collection
}

// NewArchiveStore wires the archive store to a collection. Caller manages the client lifecycle.
func NewArchiveStore(collection *mongo.Collection) *ArchiveStore {
	return &ArchiveStore{collection: collection}
}

// archiveDocument is the stored shape. The archive id doubles as the document
// id so a retried insert collides instead of duplicating.
type archiveDocument struct {
	ArchiveID  string    `bson:"_id"`
	OrderID    int64     `bson:"OrderID"`
	Order      []bson.M  `bson:"Order"`
	OrderItems []bson.M  `bson:"OrderItems"`
	Shipments  []bson.M  `bson:"Shipments"`
	DeletedAt  time.Time `bson:"DeletedAt"`
}

// EnsureIndexes creates the lookup index on OrderID.
func (s *ArchiveStore) EnsureIndexes(ctx context.Context) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "OrderID", Value: 1}, {Key: "DeletedAt", Value: 1}},
		Options: options.Index().SetName("idx_deleted_order_order_id"),
	})
	return classify(err)
}

// Append inserts the archive document. A duplicate archive id means an
// earlier attempt already landed and is reported as success.
func (s *ArchiveStore) Append(ctx context.Context, record domain.ArchivedOrderRecord) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	if record.ArchiveID == "" {
		return errors.New("archive id is required")
	}
	doc := archiveDocument{
		ArchiveID:  record.ArchiveID,
		OrderID:    record.OrderID,
		Order:      toDocuments(record.Order),
		OrderItems: toDocuments(record.OrderItems),
		Shipments:  toDocuments(record.Shipments),
		DeletedAt:  record.DeletedAt.UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return classify(err)
	}
	return nil
}

// FindByOrderID lists the archive documents for an order, oldest first.
func (s *ArchiveStore) FindByOrderID(ctx context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error) {
	if err := s.ensureCollection(); err != nil {
		return nil, err
	}
	cursor, err := s.collection.Find(ctx,
		bson.D{{Key: "OrderID", Value: orderID}},
		options.Find().SetSort(bson.D{{Key: "DeletedAt", Value: 1}}))
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var docs []archiveDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify(err)
	}
	out := make([]domain.ArchivedOrderRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (s *ArchiveStore) ensureCollection() error {
	if s == nil || s.collection == nil {
		return fmt.Errorf("%w: archive store not configured", ports.ErrStoreUnavailable)
	}
	return nil
}

func (d archiveDocument) toDomain() domain.ArchivedOrderRecord {
	return domain.ArchivedOrderRecord{
		ArchiveID:  d.ArchiveID,
		OrderID:    d.OrderID,
		Order:      fromDocuments(d.Order),
		OrderItems: fromDocuments(d.OrderItems),
		Shipments:  fromDocuments(d.Shipments),
		DeletedAt:  d.DeletedAt.UTC(),
	}
}

func toDocuments(records []domain.Record) []bson.M {
	out := make([]bson.M, 0, len(records))
	for _, r := range records {
		doc := make(bson.M, len(r))
		for k, v := range domain.NormalizeRecord(r) {
			doc[k] = v
		}
		out = append(out, doc)
	}
	return out
}

func fromDocuments(docs []bson.M) []domain.Record {
	out := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		r := make(domain.Record, len(doc))
		for k, v := range doc {
			switch val := v.(type) {
			case primitive.DateTime:
				r[k] = val.Time().UTC()
			case int32:
				r[k] = int64(val)
			default:
				r[k] = val
			}
		}
		out = append(out, r)
	}
	return out
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var selectionErr topology.ServerSelectionError
	if mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &selectionErr) {
		return fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err)
	}
	return err
}
