package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jralmeda/pcxscraper/config"
	"jralmeda/pcxscraper/helpers"
	"jralmeda/pcxscraper/internal/export"
	"jralmeda/pcxscraper/internal/extract"
	"jralmeda/pcxscraper/internal/observability"
	"jralmeda/pcxscraper/internal/pipeline"
	"jralmeda/pcxscraper/internal/storage"
	"jralmeda/pcxscraper/logger"
	"jralmeda/pcxscraper/services/cache"
	"jralmeda/pcxscraper/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing_url", cfg.ListingURL).
		Dur("fetch_delay", cfg.FetchDelay).
		Msg("Starting scraper")

	if cfg.MetricsPort != "" {
		observability.Start(cfg.MetricsPort)
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics listener started")
	}

	helpers.SetTimeout(cfg.HTTPTimeout)

	// Set up context cancelled by shutdown signals; partial output stays
	// valid, so cancellation stops further fetches rather than discarding
	// already-merged records.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Assemble the fetcher, optionally decorated with a memcache page cache
	var fetcher pipeline.Fetcher = pipeline.HTTPFetcher{}
	if cfg.MemcacheAddr != "" {
		fetcher = pipeline.NewCachingFetcher(fetcher, cache.NewMemcacheService(cfg.MemcacheAddr), cfg.PageCacheTTL)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Page cache enabled")
	}

	// Optional record sinks
	var sinks []pipeline.RecordSink
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		pub = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		defer pub.Close()
		sinks = append(sinks, &pipeline.PublisherSink{Publisher: pub})
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Record publisher enabled")
	}
	if cfg.DatabaseURL != "" {
		store, err := storage.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		defer store.Close()
		sinks = append(sinks, &pipeline.StoreSink{Store: store})
		log.Info().Msg("Product store enabled")
	}

	sink := helpers.NewZerologSink()
	p := pipeline.New(
		extract.NewListingExtractor(cfg.BaseURL, sink),
		extract.NewDetailExtractor(),
		fetcher,
		sink,
		cfg.FetchDelay,
		sinks...,
	)

	dataset, err := p.Run(ctx, cfg.ListingURL)
	switch {
	case err == nil:
	case ctx.Err() != nil && len(dataset) > 0:
		log.Warn().Int("records", len(dataset)).Msg("Run interrupted; exporting partial dataset")
	default:
		// Run-fatal: the listing page could not be fetched or yielded no
		// candidate cards.
		log.Fatal().Err(err).Msg("Scraping run failed")
	}

	if err := export.WriteCSVFile(cfg.OutputFile, dataset); err != nil {
		log.Fatal().Err(err).Msg("Failed to write CSV output")
	}

	if pub != nil {
		if err := pub.TrimStream(); err != nil {
			log.Error().Err(err).Msg("Failed to trim record stream")
		}
	}

	log.Info().
		Int("records", len(dataset)).
		Str("output", cfg.OutputFile).
		Msg("Done; CSV saved")
}
