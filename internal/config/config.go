package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the explicit configuration passed into component constructors.
// The core itself needs only the store location; everything else configures
// the surrounding collaborators.
type Config struct {
	DatabaseURL string
	HTTPPort    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroup   string

	WebhookURL string
	AdminIDs   []int64

	SweepSchedule  string
	AlertRetention time.Duration
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience.
func LoadConfig() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DATABASE_URL", "dupwatch.db")
	v.SetDefault("HTTP_PORT", "4030")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_TOPIC", "dupwatch.alerts")
	v.SetDefault("KAFKA_GROUP", "dupwatch")
	v.SetDefault("SWEEP_SCHEDULE", "@daily")
	v.SetDefault("ALERT_RETENTION", "720h")

	retention, err := time.ParseDuration(v.GetString("ALERT_RETENTION"))
	if err != nil {
		logrus.Warnf("invalid ALERT_RETENTION %q, using 720h", v.GetString("ALERT_RETENTION"))
		retention = 720 * time.Hour
	}

	return Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		HTTPPort:       v.GetString("HTTP_PORT"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		KafkaBrokers:   v.GetString("KAFKA_BROKERS"),
		KafkaTopic:     v.GetString("KAFKA_TOPIC"),
		KafkaGroup:     v.GetString("KAFKA_GROUP"),
		WebhookURL:     v.GetString("WEBHOOK_URL"),
		AdminIDs:       parseAdminIDs(v.GetString("ADMIN_IDS")),
		SweepSchedule:  v.GetString("SWEEP_SCHEDULE"),
		AlertRetention: retention,
	}
}

// GetDb opens the backing database. A postgres DSN or postgres:// URL selects
// the postgres driver; anything else is treated as a sqlite file path.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func GetDb(cnf Config) (*gorm.DB, error) {
	gormCnf := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if isPostgres(cnf.DatabaseURL) {
		return gorm.Open(postgres.Open(cnf.DatabaseURL), gormCnf)
	}

	path := strings.TrimPrefix(cnf.DatabaseURL, "sqlite://")
	return gorm.Open(sqlite.Open(path), gormCnf)
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://") ||
		strings.Contains(url, "host=")
}

func parseAdminIDs(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			logrus.Warnf("ignoring invalid admin id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
