//go:build !cli
// +build !cli

package main

import (
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront.GO/config"
	"storefront.GO/core/cache"
	storefrontCron "storefront.GO/cron"
	"storefront.GO/cron/jobs"
	"storefront.GO/html"
	"storefront.GO/render"
	"storefront.GO/selection"
	svc "storefront.GO/service/catalog"
	"storefront.GO/service/media"
	"storefront.GO/widget"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cfg := config.AppConfig

	// Initialize Redis
	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, caching disabled."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, caching disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	var appCache *cache.Cache
	if config.RedisClient != nil {
		appCache = cache.NewWithRedis(config.RedisClient, cfg.AppName)
	} else {
		appCache = cache.New()
	}

	client := svc.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	orch := svc.NewOrchestrator(client, svc.NewESSearch(), cfg.PerPage, cfg.FallbackPerPage, cfg.FallbackMaxPages)
	options := svc.NewOptionsLoader(client, appCache, cfg.FallbackMaxPages, cfg.FallbackPerPage)

	repo, err := selection.NewRepository(db)
	if err != nil {
		log.Fatalf("selection repository: %v", err)
	}
	cart := selection.NewCart(cfg.CartMaxPerItem)
	quote := selection.NewQuotation()

	sink := render.NewBufferSink()
	engine := widget.NewEngine(cfg, orch, options, cart, quote, repo, sink)
	defer engine.Close()

	jobs.BindSelectionFlush(func() { repo.FlushAll(cart, quote) })
	jobs.BindFacetRefresh(options.Invalidate)
	c := storefrontCron.StartCron()
	defer c.Stop()

	thumbs := media.NewThumbnailer(appCache, cfg.APITimeout)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	html.RegisterStorefrontRoutes(e, engine, sink, thumbs)

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
	fig := figure.NewFigure("Storefront ->", fonts[rand.Intn(len(fonts))], true)
	fig.Print()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Storefront running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
