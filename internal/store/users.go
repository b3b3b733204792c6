package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petshop/internal/apperr"
	"petshop/internal/models"
)

var ErrUserNotFound = apperr.NotFound("user not found")

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(UsersCollection)}
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, errors.Wrap(err, "find user")
	}
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	return user, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"email": NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "count users by email")
	}
	return count > 0, nil
}

// PhoneExists reports whether another user than exclude owns phone. Pass
// primitive.NilObjectID to check every user.
func (s *UserStore) PhoneExists(ctx context.Context, phone string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"phone": phone}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	count, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "count users by phone")
	}
	return count > 0, nil
}

// Create inserts user with a fresh id and timestamps. The email is stored
// normalised and the address list normalised.
func (s *UserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	ts := now()
	user.ID = primitive.NewObjectID()
	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Addresses = models.NormalizeDefaultAddresses(user.Addresses)
	user.CreatedAt = ts
	user.UpdatedAt = ts

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return user, nil
}

// UpdateProfile applies update and returns the stored user.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (models.User, error) {
	set := bson.M{"updatedAt": now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Birthday != nil {
		set["birthday"] = *update.Birthday
	}
	if update.AvatarURL != nil {
		set["avatarUrl"] = *update.AvatarURL
	}
	return s.findOneAndSet(ctx, id, set)
}

// SaveAddresses replaces the address list of the user after normalising it.
func (s *UserStore) SaveAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) ([]models.Address, error) {
	user, err := s.findOneAndSet(ctx, id, bson.M{
		"addresses": models.NormalizeDefaultAddresses(addresses),
		"updatedAt": now(),
	})
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *UserStore) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (models.User, error) {
	var user models.User
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, errors.Wrap(err, "update user")
	}
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	return user, nil
}

// FindSummaries loads the owner projections for ids.
func (s *UserStore) FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "find user summaries")
	}
	summaries, err := decodeAll[models.UserSummary](ctx, cursor)
	if err != nil {
		return nil, errors.Wrap(err, "decode user summaries")
	}
	for _, summary := range summaries {
		out[summary.ID] = summary
	}
	return out, nil
}
