package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Leileisme/Shop-back/middleware"
	"github.com/Leileisme/Shop-back/models"
	"github.com/Leileisme/Shop-back/repository"
)

// POST /orders — places an order from the user's current cart, then clears
// the cart.
func CreateOrder(ordersCol, productsCol *mongo.Collection, store *repository.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		if len(user.Cart) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cart is empty"})
			return
		}

		ids := make([]bson.ObjectID, 0, len(user.Cart))
		for _, item := range user.Cart {
			ids = append(ids, item.Product)
		}
		products, err := productsByID(ctx, productsCol, ids)
		if err != nil {
			log.Println("load order products failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		for _, item := range user.Cart {
			p, ok := products[item.Product]
			if !ok || !p.Sell {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cart contains a product not for sale"})
				return
			}
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:        bson.NewObjectID(),
			User:      user.ID,
			Cart:      user.Cart,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := ordersCol.InsertOne(ctx, order); err != nil {
			log.Println("insert order failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		if err := store.SetCart(ctx, user.ID, []models.CartItem{}); err != nil {
			log.Println("clear cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": order.ID})
	}
}

// GET /orders — the authenticated user's orders, products resolved.
func GetMyOrders(ordersCol, productsCol *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		orders, err := findOrders(ctx, ordersCol, bson.M{"user": user.ID})
		if err != nil {
			log.Println("list orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		result, err := populateOrders(ctx, productsCol, orders, nil)
		if err != nil {
			log.Println("populate orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": result})
	}
}

// GET /orders/all — admin listing with user accounts resolved as well.
func GetAllOrders(ordersCol, productsCol, usersCol *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		orders, err := findOrders(ctx, ordersCol, bson.M{})
		if err != nil {
			log.Println("list orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		accounts, err := accountsByID(ctx, usersCol, orders)
		if err != nil {
			log.Println("load order users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		result, err := populateOrders(ctx, productsCol, orders, accounts)
		if err != nil {
			log.Println("populate orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": result})
	}
}

func findOrders(ctx context.Context, col *mongo.Collection, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	for cursor.Next(ctx) {
		var o models.Order
		if err := cursor.Decode(&o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, cursor.Err()
}

// populateOrders resolves product documents (and, when accounts is given,
// the ordering user's account) into response entries.
func populateOrders(ctx context.Context, productsCol *mongo.Collection, orders []models.Order, accounts map[bson.ObjectID]string) ([]gin.H, error) {
	ids := make([]bson.ObjectID, 0)
	seen := map[bson.ObjectID]bool{}
	for _, o := range orders {
		for _, item := range o.Cart {
			if !seen[item.Product] {
				seen[item.Product] = true
				ids = append(ids, item.Product)
			}
		}
	}

	products, err := productsByID(ctx, productsCol, ids)
	if err != nil {
		return nil, err
	}

	result := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		cart := make([]gin.H, 0, len(o.Cart))
		for _, item := range o.Cart {
			entry := gin.H{"quantity": item.Quantity}
			if p, ok := products[item.Product]; ok {
				entry["product"] = p
			} else {
				entry["product"] = item.Product
			}
			cart = append(cart, entry)
		}

		entry := gin.H{
			"id":        o.ID,
			"cart":      cart,
			"createdAt": o.CreatedAt,
		}
		if accounts != nil {
			entry["user"] = gin.H{"account": accounts[o.User]}
		}
		result = append(result, entry)
	}
	return result, nil
}

func accountsByID(ctx context.Context, usersCol *mongo.Collection, orders []models.Order) (map[bson.ObjectID]string, error) {
	ids := make([]bson.ObjectID, 0)
	seen := map[bson.ObjectID]bool{}
	for _, o := range orders {
		if !seen[o.User] {
			seen[o.User] = true
			ids = append(ids, o.User)
		}
	}

	accounts := map[bson.ObjectID]string{}
	if len(ids) == 0 {
		return accounts, nil
	}

	cursor, err := usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		accounts[u.ID] = u.Account
	}
	return accounts, cursor.Err()
}
