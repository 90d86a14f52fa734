package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/cache"
	"github.com/jotajotaz/bcn-flights/internal/config"
	"github.com/jotajotaz/bcn-flights/internal/format"
	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/internal/notify"
	"github.com/jotajotaz/bcn-flights/internal/providers"
	"github.com/jotajotaz/bcn-flights/internal/ratelimit"
	"github.com/jotajotaz/bcn-flights/internal/runlog"
	"github.com/jotajotaz/bcn-flights/internal/search"
	"github.com/jotajotaz/bcn-flights/pkg/retry"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		return 1
	}

	retryPolicy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       cfg.Retry.Delay,
	}

	notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, retryPolicy, logger)
	if telegramFatal(err) {
		logger.Error("telegram initialization failed", "error", err)
		return 1
	}
	if err != nil {
		logger.Warn("telegram not configured, messages will not be sent", "error", err)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("critical failure during search", "panic", r)
			if notifier != nil {
				notifier.SendErrorAlert(fmt.Sprint(r))
			}
			code = 1
		}
	}()

	ctx := context.Background()

	legCache := buildCache(cfg, logger)
	defer legCache.Close()

	client, err := providers.NewAmadeusClient(providers.AmadeusConfig{
		APIKey:     cfg.Amadeus.APIKey,
		APISecret:  cfg.Amadeus.APISecret,
		BaseURL:    cfg.Amadeus.BaseURL,
		MaxResults: cfg.Search.MaxResultsPerSearch,
		Timeout:    cfg.Search.RequestTimeout,
		Retry:      retryPolicy,
	}, ratelimit.NewWithDefaults(), legCache, logger)
	if err != nil {
		logger.Error("provider initialization failed", "error", err)
		return 1
	}

	windows, err := cfg.Windows()
	if err != nil {
		logger.Error("configuration error", "error", err)
		return 1
	}

	dayPairs := config.DefaultDayPairs()
	searcher := search.New(client, search.Config{
		OutboundWindow:       windows.Outbound,
		ReturnWindow:         windows.Return,
		RelaxedMarginMinutes: cfg.Search.RelaxedMarginMinutes,
		MinPrice:             cfg.Search.MinPrice,
		MaxPrice:             cfg.Search.MaxPrice,
		SingleLegThreshold:   cfg.Search.SingleLegThreshold,
		Workers:              cfg.Search.Workers,
		DayPairs:             dayPairs,
	}, logger)

	targetDate := time.Now().AddDate(0, 0, 7*cfg.Search.WeeksAhead)
	logger.Info("starting weekly fare search", "target_date", targetDate.Format("2006-01-02"))

	var results []*models.RouteResult
	for _, route := range config.DefaultRoutes() {
		results = append(results, searcher.SearchRoute(ctx, route, targetDate))
	}

	if path, err := runlog.Write(cfg.LogDir, time.Now(), results); err != nil {
		logger.Warn("run log not written", "error", err)
	} else {
		logger.Info("run log written", "path", path)
	}

	message := format.Message(results, dayPairs, cfg.Search.TopOptionsToShow)

	if notifier == nil {
		logger.Warn("message generated but not sent")
		fmt.Println(message)
		return 0
	}

	if !notifier.Send(message) {
		logger.Error("telegram delivery failed")
		return 1
	}

	logger.Info("search completed")
	return 0
}

// telegramFatal reports whether a notifier construction error should abort
// the run. Missing credentials keep the search running with delivery skipped;
// anything else (bad token, Telegram unreachable) is a failed delivery.
func telegramFatal(err error) bool {
	return err != nil && !errors.Is(err, notify.ErrMissingTelegramConfig)
}

func buildCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if !cfg.Redis.Enabled {
		return cache.NewNoOpCache()
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		logger.Warn("redis unavailable, leg cache disabled", "error", err)
		return cache.NewNoOpCache()
	}

	logger.Info("redis leg cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	return redisCache
}
