package cmd

import (
	"storefront.GO/config"
	"storefront.GO/core/cache"
	"storefront.GO/cron/jobs"
	"storefront.GO/selection"
	svc "storefront.GO/service/catalog"
)

// components holds the pieces the maintenance commands share. The CLI wires
// a minimal slice of the application: no engine, no HTTP.
type components struct {
	options *svc.OptionsLoader
	repo    *selection.Repository
	cart    *selection.Store
	quote   *selection.Store
}

func buildComponents() (*components, error) {
	config.LoadAppConfig()
	cfg := config.AppConfig

	config.InitRedis()
	var appCache *cache.Cache
	if config.RedisClient != nil {
		appCache = cache.NewWithRedis(config.RedisClient, cfg.AppName)
	} else {
		appCache = cache.New()
	}

	db, err := config.NewDB()
	if err != nil {
		return nil, err
	}
	repo, err := selection.NewRepository(db)
	if err != nil {
		return nil, err
	}

	cart := selection.NewCart(cfg.CartMaxPerItem)
	quote := selection.NewQuotation()
	if err := repo.LoadInto(cart); err != nil {
		return nil, err
	}
	if err := repo.LoadInto(quote); err != nil {
		return nil, err
	}

	client := svc.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	options := svc.NewOptionsLoader(client, appCache, cfg.FallbackMaxPages, cfg.FallbackPerPage)

	return &components{
		options: options,
		repo:    repo,
		cart:    cart,
		quote:   quote,
	}, nil
}

// bindJobs connects the cron job functions to live components.
func bindJobs() error {
	c, err := buildComponents()
	if err != nil {
		return err
	}
	jobs.BindSelectionFlush(func() { c.repo.FlushAll(c.cart, c.quote) })
	jobs.BindFacetRefresh(c.options.Invalidate)
	return nil
}
