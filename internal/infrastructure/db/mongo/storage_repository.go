package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

const collectionStorage = "storage"

// StorageRepository persists storage records. Reads hydrate the embedded
// user and product objects.
type StorageRepository struct {
	col      *mongo.Collection
	users    *UserRepository
	products *ProductRepository
}

func NewStorageRepository(db *mongo.Database, users *UserRepository, products *ProductRepository) *StorageRepository {
	return &StorageRepository{
		col:      db.Collection(collectionStorage),
		users:    users,
		products: products,
	}
}

type storageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ProductID string             `bson:"product_id"`
	StartDate string             `bson:"start_date"`
	EndDate   string             `bson:"end_date,omitempty"`
	Quantity  int                `bson:"quantity"`
	Amount    float64            `bson:"amount"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d storageDoc) toDomain() *domain.Storage {
	return &domain.Storage{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ProductID: d.ProductID,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Quantity:  d.Quantity,
		Amount:    d.Amount,
		Status:    domain.StorageStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

func (r *StorageRepository) Create(ctx context.Context, s *domain.Storage) (*domain.Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := storageDoc{
		UserID:    s.UserID,
		ProductID: s.ProductID,
		StartDate: s.StartDate,
		Quantity:  s.Quantity,
		Amount:    s.Amount,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert storage: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	out := doc.toDomain()
	r.hydrate(ctx, out)
	return out, nil
}

func (r *StorageRepository) FindByID(ctx context.Context, id string) (*domain.Storage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStorageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc storageDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStorageNotFound
		}
		return nil, fmt.Errorf("find storage: %w", err)
	}

	out := doc.toDomain()
	r.hydrate(ctx, out)
	return out, nil
}

func (r *StorageRepository) List(ctx context.Context, userID string) ([]*domain.Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Storage
	for cur.Next(ctx) {
		var doc storageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode storage: %w", err)
		}
		s := doc.toDomain()
		r.hydrate(ctx, s)
		out = append(out, s)
	}
	return out, cur.Err()
}

func (r *StorageRepository) UpdateStatus(ctx context.Context, id string, status domain.StorageStatus) error {
	return r.update(ctx, id, bson.M{"status": string(status)})
}

func (r *StorageRepository) Close(ctx context.Context, id string, endDate string) error {
	return r.update(ctx, id, bson.M{
		"end_date": endDate,
		"status":   string(domain.StatusClosed),
	})
}

func (r *StorageRepository) update(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStorageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrStorageNotFound
	}
	return nil
}

func (r *StorageRepository) hydrate(ctx context.Context, s *domain.Storage) {
	if user, err := r.users.FindByID(ctx, s.UserID); err == nil {
		s.User = user
	}
	if product, err := r.products.FindByID(ctx, s.ProductID); err == nil {
		s.Product = product
	}
}
