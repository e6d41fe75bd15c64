package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DatabaseConfig конфигурация БД
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Name     string
	SSLMode  string
}

// Load загружает конфигурацию из окружения (.env подхватывается, если есть)
func Load() error {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	AppConfig = &Config{
		Environment: env,
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Bot: BotConfig{
			Token:    getEnv("BOT_TOKEN", ""),
			Debug:    getEnvAsBool("BOT_DEBUG", env != "production"),
			AdminIDs: parseAdminIDs(getEnv("ADMIN_IDS", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Username: getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "ascent-db"),
			SSLMode:  getSSLMode(env),
		},
		Zibal: ZibalConfig{
			Merchant:    getEnv("ZIBAL_MERCHANT", ""),
			BaseURL:     getEnv("ZIBAL_BASE_URL", "https://gateway.zibal.ir"),
			CallbackURL: getEnv("CALLBACK_URL", ""),
		},
		Club: ClubConfig{
			GroupID:   getEnvAsInt64("CLUB_GROUP_ID", 0),
			SweepHour: getEnvAsInt("SWEEP_HOUR", 9),
		},
	}

	return validate()
}

// validate проверяет обязательные параметры
func validate() error {
	var errors []string

	if AppConfig.Bot.Token == "" {
		errors = append(errors, "BOT_TOKEN is required")
	}

	if AppConfig.Database.Username == "" {
		errors = append(errors, "DB_USER is required")
	}

	if AppConfig.Database.Password == "" && AppConfig.Environment == "production" {
		errors = append(errors, "DB_PASSWORD is required in production")
	}

	if AppConfig.Zibal.Merchant == "" {
		errors = append(errors, "ZIBAL_MERCHANT is required")
	}

	if AppConfig.Zibal.CallbackURL == "" {
		errors = append(errors, "CALLBACK_URL is required")
	}

	if AppConfig.Club.GroupID == 0 {
		errors = append(errors, "CLUB_GROUP_ID is required")
	}

	if h := AppConfig.Club.SweepHour; h < 0 || h > 23 {
		errors = append(errors, "SWEEP_HOUR must be between 0 and 23")
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, ", "))
	}

	return nil
}

// getSSLMode возвращает режим SSL в зависимости от окружения
func getSSLMode(env string) string {
	if env == "production" {
		return "require" // В продакшене всегда SSL
	}
	return "disable" // В разработке можно отключить
}

// parseAdminIDs парсит список ID администраторов
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
