package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"roborock-cleaning-panel/internal/adapters/input/http"
	"roborock-cleaning-panel/internal/adapters/input/ssdp"
	"roborock-cleaning-panel/internal/adapters/output/homeassistant"
	"roborock-cleaning-panel/internal/adapters/output/metrics"
	"roborock-cleaning-panel/internal/adapters/output/mqtt"
	"roborock-cleaning-panel/internal/adapters/output/persistence"
	"roborock-cleaning-panel/internal/config"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/robot"
	"roborock-cleaning-panel/internal/domain/service"
	"roborock-cleaning-panel/internal/domain/session"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("invalid environment", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: env.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence
	configRepo := persistence.NewJSONConfigRepository(env.ConfigPath)
	cfg := loadConfig(ctx, configRepo, env, log)

	ip := env.LocalIP
	if ip == "" {
		ip = cfg.LocalIP
	}
	if ip == "" {
		ip = getLocalIP()
	}
	if ip == "" {
		log.Error("could not determine local IP, set LOCAL_IP")
		os.Exit(1)
	}
	log.Info("starting roborock cleaning panel", "ip", ip, "listen", env.ListenAddr)

	// HA Client
	haClient := homeassistant.NewClient(env.HTTPTimeout, log.With("component", "homeassistant"))
	if cfg.HassURL != "" && cfg.HassToken != "" {
		haClient.Configure(cfg.HassURL, cfg.HassToken)
	}

	vacuum := robot.New(haClient, nil)
	rooms := service.NewRoomDirectory(haClient, nil, log.With("component", "rooms"))
	collector := metrics.NewRunCollector()

	opts := []session.Option{
		session.WithSettleDelay(cfg.SettleDelay()),
		session.WithObserver(collector),
		session.WithLogger(log.With("component", "session")),
	}
	if env.MQTTBroker != "" {
		publisher, err := mqtt.Connect(env.MQTTBroker, "", env.MQTTTopicPrefix, vacuum.Name, log.With("component", "mqtt"))
		if err != nil {
			log.Warn("mqtt unavailable, run events will not be published", "broker", env.MQTTBroker, "error", err)
		} else {
			defer publisher.Close()
			opts = append(opts, session.WithObserver(publisher))
		}
	}
	controller := session.NewController(vacuum, opts...)

	panel := service.NewPanelService(controller, rooms, vacuum, cfg.Theme)
	configService := service.NewConfigService(configRepo, haClient, vacuum, rooms, panel)
	if err := configService.Apply(cfg); err != nil {
		log.Warn("robot not configured yet, use /admin/config", "error", err)
	}
	bridgeService := service.NewBridgeService(rooms, controller, vacuum, log.With("component", "bridge"))

	port := listenPort(env.ListenAddr)

	// Start SSDP Server
	ssdpServer := ssdp.NewServer(ip, port, log.With("component", "ssdp"))
	go func() {
		if err := ssdpServer.Start(ctx); err != nil {
			log.Error("ssdp server error", "error", err)
		}
	}()

	// Start HTTP Server
	httpServer := http.NewServer(panel, configService, bridgeService, collector.Handler(), ip, port, log.With("component", "http"))
	if err := httpServer.ListenAndServe(ctx, env.ListenAddr); err != nil {
		log.Error("http server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// loadConfig reads the persisted config. On first start it is seeded from
// the card YAML and the environment, then saved.
func loadConfig(ctx context.Context, repo *persistence.JSONConfigRepository, env *config.Env, log *slog.Logger) *model.Config {
	firstStart := !repo.Exists()
	cfg, err := repo.Get(ctx)
	if err != nil {
		log.Error("config unreadable, starting empty", "path", env.ConfigPath, "error", err)
		cfg = &model.Config{Areas: []model.AreaConfig{}}
	}

	seeded := false
	if firstStart && env.CardConfig != "" {
		card, err := persistence.LoadCardConfig(env.CardConfig)
		if err != nil {
			log.Warn("card config not imported", "path", env.CardConfig, "error", err)
		} else {
			cfg = card
			seeded = true
			log.Info("imported card config", "path", env.CardConfig, "entity", cfg.Robot.EntityID, "areas", len(cfg.Areas))
		}
	}
	if cfg.HassURL == "" && cfg.HassToken == "" && env.HassURL != "" && env.HassToken != "" {
		cfg.HassURL = env.HassURL
		cfg.HassToken = env.HassToken
		seeded = true
	}

	if seeded {
		if err := repo.Save(ctx, cfg); err != nil {
			log.Warn("could not save seeded config", "error", err)
		}
	}
	return cfg
}

func listenPort(addr string) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 80
	}
	n, err := strconv.Atoi(port)
	if err != nil || n == 0 {
		return 80
	}
	return n
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
