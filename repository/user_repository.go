package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/models"
	"github.com/Leileisme/Shop-back/utils"
)

// UserStore persists users and their session token sets. Every token
// mutation is a single UpdateOne, so concurrent logins and logouts on the
// same user cannot lose each other's updates.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(col *mongo.Collection) *UserStore {
	return &UserStore{col: col}
}

// FindByAccount resolves a user by login account.
func (s *UserStore) FindByAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"account": account}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by account: %w", err)
	}
	return &user, nil
}

// FindByIDAndToken resolves a user only if token is still registered on the
// document. A decoded token whose entry was pulled (logout, renewal) misses
// here regardless of its signature and expiry.
func (s *UserStore) FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}

	var user models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid, "tokens": token}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id and token: %w", err)
	}
	return &user, nil
}

// Create validates, hashes the password and inserts the user. Constraint
// violations come back as a field-keyed *models.ValidationError.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if verr := user.Validate(); verr != nil {
		return verr
	}

	// The stored value is a hash, so the plaintext length check has to
	// happen here, right before hashing.
	if user.Password == "" {
		verr := models.NewValidationError()
		verr.Add("password", "missing user password")
		return verr
	}
	if len(user.Password) < 4 || len(user.Password) > 20 {
		verr := models.NewValidationError()
		verr.Add("password", "user password length invalid")
		return verr
	}
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Tokens == nil {
		user.Tokens = []string{}
	}
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}

	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			verr := models.NewValidationError()
			verr.Add(duplicateField(err), "already in use")
			return verr
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// AddToken registers a new session token for the user.
func (s *UserStore) AddToken(ctx context.Context, id bson.ObjectID, token string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"tokens": token},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add token: %w", err)
	}
	return nil
}

// RemoveToken revokes exactly one matching token. A token that is already
// gone is not an error.
func (s *UserStore) RemoveToken(ctx context.Context, id bson.ObjectID, token string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"tokens": token},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// ReplaceToken swaps oldToken for newToken in one update. The positional
// operator targets the matched entry, so the old token stops validating the
// moment this returns, even if its expiry claim has time left.
func (s *UserStore) ReplaceToken(ctx context.Context, id bson.ObjectID, oldToken, newToken string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id, "tokens": oldToken}, bson.M{
		"$set": bson.M{"tokens.$": newToken, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("replace token: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// SetCart replaces the user's cart.
func (s *UserStore) SetCart(ctx context.Context, id bson.ObjectID, cart []models.CartItem) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"cart": cart, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	default:
		return "account"
	}
}
