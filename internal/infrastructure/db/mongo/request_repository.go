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

const collectionRequests = "requests"

// RequestRepository persists storage requests. Reads hydrate the embedded
// user, product, and linked storage so API responses carry the full objects
// the front-end renders from.
type RequestRepository struct {
	col      *mongo.Collection
	users    *UserRepository
	products *ProductRepository
	storage  *StorageRepository
}

func NewRequestRepository(db *mongo.Database, users *UserRepository, products *ProductRepository, storage *StorageRepository) *RequestRepository {
	return &RequestRepository{
		col:      db.Collection(collectionRequests),
		users:    users,
		products: products,
		storage:  storage,
	}
}

type requestDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ProductID string             `bson:"product_id"`
	StartDate string             `bson:"start_date"`
	Quantity  int                `bson:"quantity"`
	StorageID string             `bson:"storage_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d requestDoc) toDomain() *domain.Request {
	return &domain.Request{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ProductID: d.ProductID,
		StartDate: d.StartDate,
		Quantity:  d.Quantity,
		StorageID: d.StorageID,
		CreatedAt: d.CreatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := requestDoc{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		StartDate: req.StartDate,
		Quantity:  req.Quantity,
		CreatedAt: req.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	out := doc.toDomain()
	r.hydrate(ctx, out)
	return out, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}

	out := doc.toDomain()
	r.hydrate(ctx, out)
	return out, nil
}

func (r *RequestRepository) List(ctx context.Context, userID string) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Request
	for cur.Next(ctx) {
		var doc requestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		req := doc.toDomain()
		r.hydrate(ctx, req)
		out = append(out, req)
	}
	return out, cur.Err()
}

func (r *RequestRepository) SetStorageID(ctx context.Context, requestID, storageID string) error {
	oid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"storage_id": storageID}})
	if err != nil {
		return fmt.Errorf("link storage: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// hydrate fills the embedded user, product, and storage. Lookup failures are
// tolerated: a dangling reference renders as an absent object rather than
// failing the whole read.
func (r *RequestRepository) hydrate(ctx context.Context, req *domain.Request) {
	if user, err := r.users.FindByID(ctx, req.UserID); err == nil {
		req.User = user
	}
	if product, err := r.products.FindByID(ctx, req.ProductID); err == nil {
		req.Product = product
	}
	if req.StorageID != "" {
		if storage, err := r.storage.FindByID(ctx, req.StorageID); err == nil {
			req.Storage = storage
		}
	}
}
