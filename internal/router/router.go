// Package router wires the HTTP routes onto a gin engine.
package router

import (
	"github.com/gin-gonic/gin"

	"petshop/internal/apperr"
	"petshop/internal/auth"
	"petshop/internal/handlers"
	"petshop/internal/metrics"
	"petshop/internal/middleware"
	"petshop/internal/response"
	"petshop/internal/storage"
	"petshop/internal/telemetry"
)

// Deps holds everything the routes need.
type Deps struct {
	Users          handlers.UserRepository
	Products       handlers.ProductRepository
	Carts          handlers.CartRepository
	Orders         handlers.OrderRepository
	Images         *storage.ImageStore
	Tokens         *auth.TokenIssuer
	Passwords      auth.PasswordHasher
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	ServiceName    string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), telemetry.Route(), middleware.RequestLogger())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperr.NotFound("route not found: "+c.Request.Method+" "+c.Request.URL.Path))
	})

	health := handlers.Health(d.ServiceName)
	r.GET("/health", health)

	api := r.Group("/api")
	api.GET("/health", health)

	protect := middleware.Protect(d.Tokens, d.Users)
	adminOnly := middleware.AdminOnly()

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", handlers.Register(d.Users, d.Passwords, d.Tokens))
		authRoutes.POST("/login", handlers.Login(d.Users, d.Passwords, d.Tokens))

		me := authRoutes.Group("", protect)
		me.GET("/me", handlers.Me())
		me.GET("/profile", handlers.Me())
		me.PUT("/profile", handlers.UpdateProfile(d.Users))

		me.GET("/addresses", handlers.GetAddresses())
		me.POST("/addresses", handlers.AddAddress(d.Users))
		me.PUT("/addresses/:id", handlers.UpdateAddress(d.Users))
		me.DELETE("/addresses/:id", handlers.DeleteAddress(d.Users))
		me.PUT("/addresses/:id/default", handlers.SetDefaultAddress(d.Users))
	}

	products := api.Group("/products")
	{
		products.GET("", handlers.ListProducts(d.Products))
		products.GET("/featured", handlers.FeaturedProducts(d.Products))
		products.GET("/categories", handlers.ProductCategories(d.Products))
		products.GET("/:id", handlers.GetProduct(d.Products))

		products.POST("", protect, adminOnly, handlers.CreateProduct(d.Products))
		products.PUT("/:id", protect, adminOnly, handlers.UpdateProduct(d.Products))
		products.DELETE("/:id", protect, adminOnly, handlers.DeleteProduct(d.Products))
	}

	cart := api.Group("/cart", protect)
	{
		cart.GET("", handlers.GetCart(d.Carts, d.Products))
		cart.POST("", handlers.CreateCart(d.Carts, d.Products))
		cart.PUT("", handlers.UpdateCart(d.Carts, d.Products))
		cart.DELETE("", handlers.ClearCart(d.Carts))
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", handlers.CreateOrder(d.Products, d.Orders, d.Metrics))
		orders.GET("/myorders", handlers.GetMyOrders(d.Orders))
		orders.GET("/:id", handlers.GetOrder(d.Orders, d.Users))

		orders.GET("", adminOnly, handlers.GetAllOrders(d.Orders, d.Users))
		orders.PUT("/:id/status", adminOnly, handlers.UpdateOrderStatus(d.Orders))
		orders.DELETE("/:id", adminOnly, handlers.DeleteOrder(d.Orders))
	}

	if d.Images != nil {
		upload := api.Group("/upload", protect)
		upload.POST("/product", adminOnly, handlers.UploadImage(d.Images, "image", storage.FolderProducts))
		upload.POST("/avatar", handlers.UploadImage(d.Images, "avatar", storage.FolderAvatars))
		upload.DELETE("/:publicId", handlers.DeleteImage(d.Images))

		api.GET("/images/:publicId", handlers.ServeImage(d.Images))
	}

	return r
}
