package env

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type EnvironmentVariables struct {
	Port                string
	RedisAddr           string
	ProcessorEndpoint   string
	StorefrontEndpoint  string
	MerchantID          string
	Currency            string
	TargetOrigins       []string
	AllowedCardNetworks []string
	MinAuthNetworks     []string
	TransactionType     string
	SessionTTL          time.Duration
	EnableClickToPay    bool
	EnableGooglePay     bool
	EnableApplePay      bool
	EnablePaze          bool
}

var (
	Env *EnvironmentVariables
)

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[env] No .env file found, relying on system environment")
	}

	Env = &EnvironmentVariables{
		Port:                getRequiredEnv("PORT"),
		RedisAddr:           getRequiredEnv("REDIS_ADDR"),
		ProcessorEndpoint:   getRequiredEnv("PROCESSOR_ENDPOINT"),
		StorefrontEndpoint:  getRequiredEnv("STOREFRONT_ENDPOINT"),
		MerchantID:          getRequiredEnv("MERCHANT_ID"),
		Currency:            getOptionalEnv("CURRENCY", "USD"),
		TargetOrigins:       splitList(getRequiredEnv("TARGET_ORIGINS")),
		AllowedCardNetworks: splitList(getOptionalEnv("CARD_NETWORKS", "VISA,MASTERCARD,AMEX,DISCOVER")),
		MinAuthNetworks:     splitList(getOptionalEnv("MIN_AUTH_NETWORKS", "DISCOVER,DINERSCLUB,JCB")),
		TransactionType:     getOptionalEnv("TRANSACTION_TYPE", "charge"),
		SessionTTL:          getDurationEnv("SESSION_TTL", 30*time.Minute),
		EnableClickToPay:    getBoolEnv("ENABLE_CLICK_TO_PAY"),
		EnableGooglePay:     getBoolEnv("ENABLE_GOOGLE_PAY"),
		EnableApplePay:      getBoolEnv("ENABLE_APPLE_PAY"),
		EnablePaze:          getBoolEnv("ENABLE_PAZE"),
	}

	log.Printf("[env] Environment variables loaded successfully:")
	log.Printf("  - Port: %s", Env.Port)
	log.Printf("  - Redis: %s", Env.RedisAddr)
	log.Printf("  - Processor: %s", Env.ProcessorEndpoint)
	log.Printf("  - Storefront: %s", Env.StorefrontEndpoint)
	log.Printf("  - Merchant: %s", Env.MerchantID)
	log.Printf("  - Currency: %s", Env.Currency)
	log.Printf("  - Transaction Type: %s", Env.TransactionType)
}

func getRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("[env] Required environment variable %s is not set", key)
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(key string) bool {
	return getOptionalEnv(key, "false") == "true"
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("[env] Invalid duration in %s: %v", key, err)
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func IsProduction() bool {
	return getOptionalEnv("ENVIRONMENT", "development") == "production"
}

func IsDevelopment() bool {
	return !IsProduction()
}
