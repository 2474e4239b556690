package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/config"
	"github.com/benbeisheim/chess-ai-backend/internal/controller"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
)

func main() {
	cfg := config.Default()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.AllowedOrigins, "origins", cfg.AllowedOrigins, "comma separated allowed origins")
	flag.DurationVar(&cfg.AIThinkTimeout, "ai-timeout", cfg.AIThinkTimeout, "engine think time before falling back to easy")
	flag.IntVar(&cfg.SearchWorkers, "workers", cfg.SearchWorkers, "goroutines scoring root moves")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "engine jitter seed, 0 for random")
	flag.IntVar((*int)(&cfg.DefaultDifficulty), "difficulty", int(cfg.DefaultDifficulty), "default difficulty 1-3")
	flag.DurationVar(&cfg.ClockInterval, "clock-interval", cfg.ClockInterval, "how often clocks are checked")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	engine := search.NewEngine(cfg.EngineOptions()...)
	gameManager := service.NewGameManager(engine, service.WithAITimeout(cfg.AIThinkTimeout))
	gameService := service.NewGameService(gameManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gameManager.WatchClocks(ctx, cfg.ClockInterval)

	app := fiber.New(fiber.Config{DisableStartupMessage: !*debug})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	controller.Register(app, controller.Controllers{
		Game:      controller.NewGameController(gameService, cfg.DefaultDifficulty),
		Engine:    controller.NewEngineController(gameService, cfg.DefaultDifficulty),
		WebSocket: controller.NewWebSocketController(gameService),
	}, websocket.Config{
		ReadBufferSize:  cfg.WSReadBufferSize,
		WriteBufferSize: cfg.WSWriteBufferSize,
		Origins:         cfg.Origins(),
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
