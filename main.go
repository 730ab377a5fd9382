package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Leileisme/Shop-back/auth"
	"github.com/Leileisme/Shop-back/config"
	"github.com/Leileisme/Shop-back/controllers"
	"github.com/Leileisme/Shop-back/database"
	"github.com/Leileisme/Shop-back/middleware"
	"github.com/Leileisme/Shop-back/repository"
	"github.com/Leileisme/Shop-back/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DBURL, cfg.DBName)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("database connected")

	usersCol := db.Collection("users")
	productsCol := db.Collection("products")
	ordersCol := db.Collection("orders")

	if err := utils.SeedAdminUser(ctx, usersCol, cfg.AdminAccount, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Println("admin seed skipped:", err)
	}

	gcs, err := utils.NewGCSClient(ctx, cfg.GCSCredentialsFile)
	if err != nil {
		log.Fatal(err)
	}

	store := repository.NewUserStore(usersCol)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	strategies := auth.NewStrategies(store, issuer)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		// Frontend runs on github.io, everything else local.
		AllowOriginFunc: func(origin string) bool {
			return origin == "" || strings.Contains(origin, "github.io") || strings.Contains(origin, "localhost")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := r.Group("/users")
	{
		users.POST("/", controllers.Signup(store))
		users.POST("/login", middleware.Login(strategies), controllers.Login(store, issuer))
		users.PATCH("/extend", middleware.JWT(strategies), controllers.Extend(store, issuer))
		users.DELETE("/logout", middleware.JWT(strategies), controllers.Logout(store))
		users.GET("/profile", middleware.JWT(strategies), controllers.Profile())
		users.GET("/cart", middleware.JWT(strategies), controllers.GetCart(productsCol))
		users.PATCH("/cart", middleware.JWT(strategies), controllers.UpdateCart(store, productsCol))
	}

	products := r.Group("/products")
	{
		products.POST("/", middleware.JWT(strategies), middleware.Admin(), controllers.CreateProduct(productsCol, gcs, cfg.GCSBucket))
		products.GET("/all", middleware.JWT(strategies), middleware.Admin(), controllers.GetAllProducts(productsCol))
		products.PATCH("/:id", middleware.JWT(strategies), middleware.Admin(), controllers.EditProduct(productsCol, gcs, cfg.GCSBucket))
		products.GET("/", controllers.GetProducts(productsCol))
		products.GET("/:id", controllers.GetProduct(productsCol))
	}

	orders := r.Group("/orders")
	{
		orders.POST("/", middleware.JWT(strategies), controllers.CreateOrder(ordersCol, productsCol, store))
		orders.GET("/", middleware.JWT(strategies), controllers.GetMyOrders(ordersCol, productsCol))
		orders.GET("/all", middleware.JWT(strategies), middleware.Admin(), controllers.GetAllOrders(ordersCol, productsCol, usersCol))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	})

	log.Println("server listening on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
