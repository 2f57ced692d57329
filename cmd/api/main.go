package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/handlers"
	"github.com/storewatch/alert-pipeline/internal/infra/config"
	"github.com/storewatch/alert-pipeline/internal/infra/rabbitmq"
	"github.com/storewatch/alert-pipeline/internal/routes"
	"github.com/storewatch/alert-pipeline/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting alert-publisher")

	// One long-lived connection per process; the alerts queue is declared
	// durable on every (re)connect.
	conn := rabbitmq.NewConnection(cfg.RabbitMQURL, []string{cfg.RabbitMQQueue}, log)
	if err := conn.Connect(); err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	publisher := rabbitmq.NewAlertPublisher(conn, cfg.RabbitMQQueue)

	app := fiber.New(fiber.Config{
		AppName: "alert-publisher",
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app,
		handlers.NewAlertHandler(publisher, log),
		handlers.NewHealthHandler(conn),
	)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		log.Info("server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
