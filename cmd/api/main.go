package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/paylume/checkout/cmd/handlers"
	"github.com/paylume/checkout/internal/env"
	"github.com/paylume/checkout/internal/logging"
	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/services/amount"
	"github.com/paylume/checkout/internal/services/authorizer"
	"github.com/paylume/checkout/internal/services/cache"
	"github.com/paylume/checkout/internal/services/capture"
	"github.com/paylume/checkout/internal/services/health"
	"github.com/paylume/checkout/internal/services/processor"
	"github.com/paylume/checkout/internal/services/storefront"
)

func main() {
	env.Load()
	logger := logging.New("checkout-api")

	redisClient := cache.NewRedisClient()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx); err != nil {
		cancel()
		log.Fatal("Failed to connect to Redis:", err)
	}
	cancel()
	defer redisClient.Close()

	processorClient := processor.NewClient(env.Env.MerchantID, env.Env.ProcessorEndpoint, 15*time.Second)
	storefrontClient := storefront.NewClient(env.Env.StorefrontEndpoint, 10*time.Second)
	contextStore := cache.NewRedisContextStore(redisClient, env.Env.SessionTTL)

	monitor := health.NewMonitor(env.Env.ProcessorEndpoint, logger)
	monitor.Start()
	defer monitor.Stop()

	handlers.Aggregator = amount.NewAggregator(storefrontClient, storefrontClient, storefrontClient, logger)
	handlers.Builder = capture.NewBuilder(processorClient, contextStore, capture.Settings{
		TargetOrigins:       env.Env.TargetOrigins,
		AllowedCardNetworks: env.Env.AllowedCardNetworks,
		Currency:            env.Env.Currency,
		EnableClickToPay:    env.Env.EnableClickToPay,
		EnableGooglePay:     env.Env.EnableGooglePay,
		EnableApplePay:      env.Env.EnableApplePay,
		EnablePaze:          env.Env.EnablePaze,
	}, logger)
	handlers.Authorizer = authorizer.NewAuthorizer(storefrontClient, processorClient, authorizer.Settings{
		TransactionType: models.TransactionType(env.Env.TransactionType),
		MinAuthNetworks: env.Env.MinAuthNetworks,
		Currency:        env.Env.Currency,
	}, logger)
	handlers.Orders = storefrontClient
	handlers.Monitor = monitor
	handlers.Log = logger

	app := fiber.New()
	app.Use(requestid.New())
	app.Post("/checkout/capture-context", handlers.HandleCaptureContext)
	app.Post("/checkout/authorize", handlers.HandleAuthorize)
	app.Get("/healthz", handlers.HandleHealth)

	log.Fatal(app.Listen(":" + env.Env.Port))
}
