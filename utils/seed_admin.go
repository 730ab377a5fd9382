package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/models"
)

// SeedAdminUser inserts the bootstrap admin account if it does not exist
// yet. Role changes are otherwise an out-of-band administrative action.
func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, account, email, password string) error {
	account = strings.TrimSpace(account)
	email = strings.ToLower(strings.TrimSpace(email))

	if account == "" || email == "" || password == "" {
		return fmt.Errorf("missing ADMIN_ACCOUNT, ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"account": account}
	update := bson.M{
		"$setOnInsert": bson.M{
			"account":   account,
			"email":     email,
			"password":  hash,
			"tokens":    []string{},
			"cart":      []models.CartItem{},
			"role":      models.RoleAdmin,
			"createdAt": now,
			"updatedAt": now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		fmt.Println("Admin user seeded:", account)
	} else {
		fmt.Println("Admin user already exists:", account)
	}

	return nil
}
