package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/config"
	"github.com/iliyamo/boat-trip-sales/internal/database"
	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/handler"
	"github.com/iliyamo/boat-trip-sales/internal/metrics"
	"github.com/iliyamo/boat-trip-sales/internal/middleware"
	"github.com/iliyamo/boat-trip-sales/internal/model"
	"github.com/iliyamo/boat-trip-sales/internal/queue"
	"github.com/iliyamo/boat-trip-sales/internal/repository"
	"github.com/iliyamo/boat-trip-sales/internal/router"
	queuepublisher "github.com/iliyamo/boat-trip-sales/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly
	cfg := config.Load()

	if cfg.BusinessTZ != "" {
		loc, err := time.LoadLocation(cfg.BusinessTZ)
		if err != nil {
			log.Fatalf("invalid BUSINESS_TZ %q: %v", cfg.BusinessTZ, err)
		}
		model.SetBusinessLocation(loc)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	metrics.Init()

	store := repository.NewStore(db)
	eng := engine.New(store)
	if pub := queuepublisher.New(cfg.RabbitURL); pub != nil {
		eng = eng.WithPublisher(pub)
		go func() {
			if err := queue.StartSalesConsumer(cfg.RabbitURL); err != nil {
				log.Printf("sales consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, store.Sellers(), repository.NewTokenRepo(db))
	presaleH := handler.NewPresaleHandler(eng)
	ticketH := handler.NewTicketHandler(eng)
	dispatchH := handler.NewDispatcherHandler(eng, store)
	ownerH := handler.NewOwnerHandler(eng)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterSales(e, presaleH, ticketH, cfg.JWTSecret)
	router.RegisterDispatcher(e, dispatchH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
