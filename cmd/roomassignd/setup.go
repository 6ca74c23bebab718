package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/himmu2625/baithkaGhar-sub009/internal/metrics"
	"github.com/himmu2625/baithkaGhar-sub009/notify"
	"github.com/himmu2625/baithkaGhar-sub009/notify/natsnotify"
	"github.com/himmu2625/baithkaGhar-sub009/notify/webhook"
	"github.com/himmu2625/baithkaGhar-sub009/store/memory"
	"github.com/himmu2625/baithkaGhar-sub009/store/natskv"
	"github.com/himmu2625/baithkaGhar-sub009/store/postgres"
	"github.com/himmu2625/baithkaGhar-sub009/store/redisstore"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// dependencies are the collaborators chosen from the settings.
type dependencies struct {
	inventory      types.Inventory
	dispatcher     types.NotificationDispatcher
	configs        types.ConfigStore
	assignments    types.AssignmentStore
	metrics        types.MetricsCollector
	metricsHandler gin.HandlerFunc

	closers []func()
}

// Close releases connections in reverse order of creation.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func wire(ctx context.Context, s settings, logger types.Logger) (*dependencies, error) {
	d := &dependencies{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	d.metrics = metrics.NewPrometheus(reg, "roomassign")
	d.metricsHandler = gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	rooms, err := loadRooms(s.RoomsFile)
	if err != nil {
		return nil, err
	}
	d.inventory = memory.NewInventory(rooms...)
	logger.Info("inventory loaded", "rooms", len(rooms), "file", s.RoomsFile)

	hooks := webhook.New(webhook.Config{
		Endpoints:  map[string]string{"guest": s.GuestHook, "front-desk": s.StaffHook},
		Timeout:    5 * time.Second,
		RetryCount: 1,
	})
	var fallback types.NotificationDispatcher = logDispatcher{logger: logger}
	d.configs = memory.NewConfigStore()

	if s.NATSURL != "" {
		nc, err := nats.Connect(s.NATSURL, nats.Name("roomassignd"))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		d.closers = append(d.closers, func() { _ = nc.Drain() })

		js, err := jetstream.New(nc)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("create JetStream context: %w", err)
		}

		configs, err := natskv.Open(ctx, js, natskv.DefaultBucket)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.configs = configs
		watchConfigs(ctx, configs, logger)
		fallback = natsnotify.New(js, natsnotify.DefaultPrefix)
		logger.Info("nats connected", "url", s.NATSURL)
	}

	multi := notify.NewMulti(fallback)
	if s.GuestHook != "" {
		multi.Route("guest", hooks)
	}
	if s.StaffHook != "" {
		multi.Route("front-desk", hooks)
	}
	d.dispatcher = multi

	switch {
	case s.DatabaseURL != "":
		db, err := postgres.Open(ctx, s.DatabaseURL, 10)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = db.Close() })

		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			d.Close()
			return nil, err
		}
		d.assignments = store
		logger.Info("assignment store: postgres")
	case s.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			d.Close()
			return nil, fmt.Errorf("ping redis %s: %w", s.RedisAddr, err)
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.assignments = redisstore.New(client, "")
		logger.Info("assignment store: redis", "addr", s.RedisAddr)
	default:
		d.assignments = memory.NewAssignmentStore()
		logger.Warn("assignment store: in-memory, history is lost on restart")
	}

	return d, nil
}

// watchConfigs logs config changes made by any replica until ctx ends.
func watchConfigs(ctx context.Context, configs *natskv.ConfigStore, logger types.Logger) {
	updates, err := configs.Watch(ctx)
	if err != nil {
		logger.Warn("config watch unavailable", "error", err)
		return
	}

	go func() {
		for cfg := range updates {
			logger.Info("assignment config changed",
				"property_id", cfg.PropertyID,
				"enabled", cfg.Enabled,
				"rules", len(cfg.Rules),
			)
		}
	}()
}

// loadRooms reads a YAML list of rooms. Rates are written as quoted decimals.
func loadRooms(path string) ([]types.RoomInventoryRecord, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rooms %s: %w", path, err)
	}

	var rooms []types.RoomInventoryRecord
	if err := yaml.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("parse rooms %s: %w", path, err)
	}
	for i := range rooms {
		if rooms[i].Status == "" {
			rooms[i].Status = types.RoomStatusAvailable
		}
	}

	return rooms, nil
}

// requestLogger logs each request at debug level.
func requestLogger(logger types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// logDispatcher writes notifications to the log when no broker is configured.
type logDispatcher struct {
	logger types.Logger
}

func (d logDispatcher) Send(_ context.Context, channel string, payload types.NotificationPayload) (bool, error) {
	d.logger.Info("notification",
		"channel", channel,
		"booking_id", payload.BookingID,
		"room", payload.RoomNumber,
		"severity", payload.Severity,
		"message", payload.Message,
	)

	return true, nil
}
