package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petshop/internal/apperr"
	"petshop/internal/models"
)

var ErrProductNotFound = apperr.NotFound("product not found")

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(ProductsCollection)}
}

// productFilter builds the catalog filter. Search is matched literally.
func productFilter(q models.ProductQuery) bson.M {
	filter := bson.M{}

	category := strings.TrimSpace(q.Category)
	if category != "" && category != models.CategoryAll {
		filter["category"] = category
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

// List returns one page of products matching q, newest first, together with
// the total number of matches.
func (s *ProductStore) List(ctx context.Context, q models.ProductQuery) ([]models.Product, int64, error) {
	filter := productFilter(q)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "find products")
	}
	products, err := decodeAll[models.Product](ctx, cursor)
	if err != nil {
		return nil, 0, errors.Wrap(err, "decode products")
	}
	return products, total, nil
}

func (s *ProductStore) Featured(ctx context.Context, n int64) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(n))
	if err != nil {
		return nil, errors.Wrap(err, "find featured products")
	}
	products, err := decodeAll[models.Product](ctx, cursor)
	if err != nil {
		return nil, errors.Wrap(err, "decode featured products")
	}
	return products, nil
}

// Categories returns the distinct categories currently in use.
func (s *ProductStore) Categories(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "distinct categories")
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if category, ok := v.(string); ok {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, errors.Wrap(err, "find product")
	}
	return product, nil
}

// FindByIDs loads the products referenced by ids. Unknown ids are absent
// from the result.
func (s *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find products by id")
	}
	products, err := decodeAll[models.Product](ctx, cursor)
	if err != nil {
		return nil, errors.Wrap(err, "decode products by id")
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *ProductStore) Create(ctx context.Context, product models.Product) (models.Product, error) {
	ts := now()
	product.ID = primitive.NewObjectID()
	product.Name = strings.TrimSpace(product.Name)
	if product.Image == "" {
		product.Image = models.DefaultProductImage
	}
	product.CreatedAt = ts
	product.UpdatedAt = ts

	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return models.Product{}, errors.Wrap(err, "insert product")
	}
	return product, nil
}

func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (models.Product, error) {
	set := bson.M{"updatedAt": now()}
	if update.Name != nil {
		set["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}

	var product models.Product
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, errors.Wrap(err, "update product")
	}
	return product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock removes qty units only while at least qty remain. It
// reports false when the product is gone or no longer has enough stock.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updatedAt": now()},
		},
	)
	if err != nil {
		return false, errors.Wrap(err, "decrement stock")
	}
	return res.MatchedCount == 1, nil
}

// IncrementStock gives back qty units taken by DecrementStock.
func (s *ProductStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": qty},
			"$set": bson.M{"updatedAt": now()},
		},
	)
	return errors.Wrap(err, "increment stock")
}

// DeleteAll empties the collection. Used by the seed command.
func (s *ProductStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "delete products")
	}
	return res.DeletedCount, nil
}
