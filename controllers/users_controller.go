package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/dto"
	"github.com/Leileisme/Shop-back/middleware"
	"github.com/Leileisme/Shop-back/models"
	"github.com/Leileisme/Shop-back/repository"
)

// POST /users
func Signup(store *repository.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid field"})
			return
		}

		user := models.User{
			Account:  strings.TrimSpace(body.Account),
			Email:    strings.ToLower(strings.TrimSpace(body.Email)),
			Password: body.Password,
			Role:     models.RoleMember,
		}

		if err := store.Create(c.Request.Context(), &user); err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				_, message := verr.First()
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
				return
			}
			log.Println("signup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": ""})
	}
}

// POST /users/login — runs behind middleware.Login, which resolved the user.
func Login(store *repository.UserStore, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		token, err := issuer.Issue(user.ID.Hex())
		if err != nil {
			log.Println("issue token failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		if err := store.AddToken(c.Request.Context(), user.ID, token); err != nil {
			log.Println("register token failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "",
			"result": gin.H{
				"token":        token,
				"account":      user.Account,
				"role":         user.Role,
				"cartQuantity": user.CartQuantity(),
			},
		})
	}
}

// PATCH /users/extend — swaps the presented token for a fresh one. The old
// token stops validating immediately, even if it had time left.
func Extend(store *repository.UserStore, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		oldToken := middleware.CurrentToken(c)

		token, err := issuer.Issue(user.ID.Hex())
		if err != nil {
			log.Println("issue token failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		err = store.ReplaceToken(c.Request.Context(), user.ID, oldToken, token)
		if errors.Is(err, auth.ErrUserNotFound) {
			// Pulled by a concurrent logout between verification and here.
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		if err != nil {
			log.Println("replace token failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": token})
	}
}

// DELETE /users/logout — revokes the presented token only; other sessions
// stay logged in.
func Logout(store *repository.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		token := middleware.CurrentToken(c)

		if err := store.RemoveToken(c.Request.Context(), user.ID, token); err != nil {
			log.Println("remove token failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": ""})
	}
}

// GET /users/profile
func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "",
			"result": gin.H{
				"account":      user.Account,
				"role":         user.Role,
				"cartQuantity": user.CartQuantity(),
			},
		})
	}
}

// GET /users/cart — the cart with product documents resolved.
func GetCart(productsCol *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		ids := make([]bson.ObjectID, 0, len(user.Cart))
		for _, item := range user.Cart {
			ids = append(ids, item.Product)
		}

		products, err := productsByID(ctx, productsCol, ids)
		if err != nil {
			log.Println("load cart products failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		result := make([]gin.H, 0, len(user.Cart))
		for _, item := range user.Cart {
			p, ok := products[item.Product]
			if !ok {
				continue
			}
			result = append(result, gin.H{"product": p, "quantity": item.Quantity})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": result})
	}
}

// PATCH /users/cart — adjusts one entry by a quantity delta; zero or less
// removes it.
func UpdateCart(store *repository.UserStore, productsCol *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		var body dto.UpdateCartDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid field"})
			return
		}

		productID, err := bson.ObjectIDFromHex(body.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id format invalid"})
			return
		}

		cart := make([]models.CartItem, len(user.Cart))
		copy(cart, user.Cart)

		idx := -1
		for i, item := range cart {
			if item.Product == productID {
				idx = i
				break
			}
		}

		quantity := body.Quantity
		if idx >= 0 {
			quantity += cart[idx].Quantity
		}

		if quantity <= 0 {
			if idx >= 0 {
				cart = append(cart[:idx], cart[idx+1:]...)
			}
		} else {
			var product models.Product
			err := productsCol.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
				return
			}
			if err != nil {
				log.Println("load product failed:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
				return
			}
			if !product.Sell {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "product not for sale"})
				return
			}

			if idx >= 0 {
				cart[idx].Quantity = quantity
			} else {
				cart = append(cart, models.CartItem{Product: productID, Quantity: quantity})
			}
		}

		if err := store.SetCart(ctx, user.ID, cart); err != nil {
			log.Println("update cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		total := 0
		for _, item := range cart {
			total += item.Quantity
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": total})
	}
}

func productsByID(ctx context.Context, col *mongo.Collection, ids []bson.ObjectID) (map[bson.ObjectID]models.Product, error) {
	products := map[bson.ObjectID]models.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, cursor.Err()
}
