package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Leileisme/Shop-back/dto"
	"github.com/Leileisme/Shop-back/models"
	"github.com/Leileisme/Shop-back/utils"
)

// POST /products — admin only, multipart: `data` JSON + `image` file.
func CreateProduct(col *mongo.Collection, gcs *storage.Client, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing data"})
			return
		}

		var body dto.CreateProductDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid data json"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid multipart form"})
			return
		}
		files := form.File["image"]
		if len(files) != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing product image"})
			return
		}

		imageURL, err := utils.UploadImageToGCS(ctx, gcs, bucket, body.Name, files[0])
		if err != nil {
			status, message := uploadError(err)
			c.JSON(status, gin.H{"success": false, "message": message})
			return
		}

		now := time.Now().UTC()
		product := models.Product{
			ID:          bson.NewObjectID(),
			Name:        strings.TrimSpace(body.Name),
			Price:       body.Price,
			Image:       imageURL,
			Description: body.Description,
			Category:    body.Category,
			Sell:        body.Sell,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if verr := product.Validate(); verr != nil {
			_, message := verr.First()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
			return
		}

		if _, err := col.InsertOne(ctx, product); err != nil {
			log.Println("insert product failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": product})
	}
}

// GET /products/all — admin listing, includes products not for sale.
func GetAllProducts(col *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		listProducts(c, col, bson.M{})
	}
}

// GET /products — public listing, sellable products only.
func GetProducts(col *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		listProducts(c, col, bson.M{"sell": true})
	}
}

// listProducts applies regex search, sorting and pagination on top of a
// base filter, and responds with {data, total}.
func listProducts(c *gin.Context, col *mongo.Collection, baseFilter bson.M) {
	ctx := c.Request.Context()

	sortBy := c.DefaultQuery("sortBy", "createdAt")
	sortOrder := utils.ParseIntDefault(c.Query("sortOrder"), -1)
	if sortOrder != 1 && sortOrder != -1 {
		sortOrder = -1
	}
	itemsPerPage := utils.ParseIntDefault(c.Query("itemsPerPage"), 20)
	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	filter := bson.M{}
	for k, v := range baseFilter {
		filter[k] = v
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
		}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: sortBy, Value: sortOrder}})
	// itemsPerPage of -1 means everything on one page.
	if itemsPerPage != -1 {
		if itemsPerPage < 1 {
			itemsPerPage = 20
		}
		findOpts = findOpts.
			SetSkip(int64((page - 1) * itemsPerPage)).
			SetLimit(int64(itemsPerPage))
	}

	cursor, err := col.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("list products failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
		return
	}
	defer cursor.Close(ctx)

	data := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			log.Println("decode product failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}
		data = append(data, p)
	}
	if err := cursor.Err(); err != nil {
		log.Println("list products failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
		return
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("count products failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"result":  gin.H{"data": data, "total": total},
	})
}

// GET /products/:id
func GetProduct(col *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id format invalid"})
			return
		}

		var product models.Product
		err = col.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}
		if err != nil {
			log.Println("get product failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "", "result": product})
	}
}

// PATCH /products/:id — admin only; fields and image are both optional.
func EditProduct(col *mongo.Collection, gcs *storage.Client, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id format invalid"})
			return
		}

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing data"})
			return
		}

		var body dto.UpdateProductDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid data json"})
			return
		}

		var product models.Product
		err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}
		if err != nil {
			log.Println("load product failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		set := bson.M{}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "product price cannot be negative"})
				return
			}
			set["price"] = *body.Price
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Category != nil {
			if !models.IsProductCategory(*body.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "product category invalid"})
				return
			}
			set["category"] = *body.Category
		}
		if body.Sell != nil {
			set["sell"] = *body.Sell
		}

		// Optional replacement image.
		oldImage := ""
		if form, err := c.MultipartForm(); err == nil && form != nil {
			if files := form.File["image"]; len(files) == 1 {
				name := product.Name
				if body.Name != nil {
					name = *body.Name
				}
				imageURL, err := utils.UploadImageToGCS(ctx, gcs, bucket, name, files[0])
				if err != nil {
					status, message := uploadError(err)
					c.JSON(status, gin.H{"success": false, "message": message})
					return
				}
				set["image"] = imageURL
				oldImage = product.Image
			}
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		if _, err := col.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			log.Println("update product failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unknown error"})
			return
		}

		// The replaced image is gone from the document, drop the object too.
		if oldImage != "" {
			if obj, err := utils.ObjectNameFromGCSPublicURL(bucket, oldImage); err == nil {
				_ = utils.DeleteGCSObject(ctx, gcs, bucket, obj)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": ""})
	}
}

func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, utils.ErrImageSize):
		return http.StatusBadRequest, "image too large"
	case errors.Is(err, utils.ErrImageFormat):
		return http.StatusBadRequest, "image format invalid"
	default:
		log.Println("image upload failed:", err)
		return http.StatusInternalServerError, "unknown error"
	}
}
