package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/mw"
	"resto-suite-backend/internal/photo"
	"resto-suite-backend/internal/refresh"
	"resto-suite-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, refresher *refresh.Refresher, photos *photo.Store) *gin.Engine {
	r := gin.Default()
	if cfg.Server.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.Server.RequestIPHeader
	}

	handler := NewHandler(s, cfg, webpushOptions, refresher, photos)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// Uploaded photos are served statically under their public base URL.
	if photos != nil {
		r.Static(cfg.Photos.BaseURL, photos.Dir())
	}

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/restaurants", handler.ListRestaurants)
		api.POST("/restaurants", handler.CreateRestaurant)

		// Staff dashboard surface, scoped by restaurant.
		staff := api.Group("/restaurants/:restaurant_id")
		{
			staff.GET("", handler.GetRestaurant)

			staff.GET("/equipment", handler.ListEquipment)
			staff.POST("/equipment", handler.CreateEquipment)

			staff.GET("/readings", handler.ListReadings)
			staff.POST("/readings", handler.CreateReading)

			staff.GET("/cleaning-tasks", handler.ListCleaningTasks)
			staff.POST("/cleaning-tasks", handler.CreateCleaningTask)
			staff.POST("/cleaning-tasks/:task_id/complete", handler.CompleteCleaningTask)

			staff.GET("/shelf-life", handler.ListShelfLifeItems)
			staff.POST("/shelf-life", handler.CreateShelfLifeItem)
			staff.POST("/shelf-life/:item_id/events", handler.CreateShelfLifeEvent)

			staff.GET("/service-windows", handler.ListServiceWindows)
			staff.POST("/service-windows", handler.CreateServiceWindow)

			staff.GET("/tables", handler.ListTables)
			staff.POST("/tables", handler.CreateTable)

			staff.GET("/reservations", handler.ListReservations)
			staff.POST("/reservations", handler.CreateReservation)
			staff.PATCH("/reservations/:reservation_id/status", handler.UpdateReservationStatus)

			staff.GET("/alerts", handler.GetAlerts)
			staff.GET("/alerts/next", handler.GetNextAlert)

			staff.POST("/photos", handler.UploadPhoto)
		}

		// Public booking surface, addressed by tenant slug. GETs are cached.
		public := api.Group("/public/:slug")
		{
			public.GET("/availability", caching, handler.GetAvailability)
			public.POST("/reservations", handler.CreatePublicReservation)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
