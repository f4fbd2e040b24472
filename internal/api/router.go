package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/auth"
	"github.com/mateuszmatysiak/collab-list/internal/config"
	"github.com/mateuszmatysiak/collab-list/internal/handlers"
	"github.com/mateuszmatysiak/collab-list/internal/service"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

func SetupRouter(cfg *config.Config, logger *zap.SugaredLogger, st store.Store) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	jwtManager := auth.NewJWTManager(cfg.JWT)

	accessService := service.NewAccess(st)
	authService := service.NewAuth(st, jwtManager, cfg.JWT.RefreshExpiresIn, logger)
	listService := service.NewLists(st, accessService, logger)
	categoryService := service.NewCategories(st, accessService, logger)
	itemService := service.NewItems(st, accessService, categoryService, logger)
	shareService := service.NewShares(st, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	listHandler := handlers.NewListHandler(listService, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger)
	itemHandler := handlers.NewItemHandler(itemService, logger)
	sharingHandler := handlers.NewSharingHandler(shareService, logger)

	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", auth.JWTMiddleware(jwtManager), authHandler.Me)
		}
	}

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(jwtManager))
	{
		categories := protected.Group("/categories")
		{
			categories.GET("", categoryHandler.ListPersonal)
			categories.POST("", categoryHandler.CreatePersonal)
			categories.PATCH("/:id", categoryHandler.UpdatePersonal)
			categories.DELETE("/:id", categoryHandler.DeletePersonal)
		}

		lists := protected.Group("/lists")
		{
			lists.GET("", listHandler.GetAll)
			lists.POST("", listHandler.Create)
			lists.GET("/:id", listHandler.Get)
			lists.PATCH("/:id", listHandler.Update)
			lists.DELETE("/:id", listHandler.Delete)

			lists.POST("/:id/share", sharingHandler.Share)
			lists.GET("/:id/shares", sharingHandler.GetShares)
			lists.DELETE("/:id/share/:userId", sharingHandler.Remove)

			items := lists.Group("/:id/items")
			{
				items.GET("", itemHandler.List)
				items.POST("", itemHandler.Create)
				items.PUT("/reorder", itemHandler.Reorder)
				items.PATCH("/:itemId", itemHandler.Update)
				items.DELETE("/:itemId", itemHandler.Delete)
			}

			listCategories := lists.Group("/:id/categories")
			{
				listCategories.GET("", categoryHandler.ListForList)
				listCategories.POST("", categoryHandler.CreateForList)
				listCategories.POST("/local", categoryHandler.CreateForList)
				listCategories.DELETE("/local/:categoryId", categoryHandler.DeleteLocal)
				listCategories.POST("/local/:categoryId/save-to-user", categoryHandler.SaveToUser)
				listCategories.POST("/local/:categoryId/import-to-owner", categoryHandler.ImportToOwner)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
