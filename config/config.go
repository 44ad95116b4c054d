package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafiansyah/docqa-backend/models"
)

// Config menampung seluruh konfigurasi aplikasi dari environment variable.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"docqa"`

	JWTSecret string `env:"JWT_SECRET"`

	// Endpoint LM Studio lokal (kontrak OpenAI-compatible)
	LMStudioURL   string  `env:"LM_STUDIO_URL" envDefault:"http://127.0.0.1:1234/v1/chat/completions"`
	LMStudioModel string  `env:"LM_STUDIO_MODEL" envDefault:"mistral-nemo-instruct-2407"`
	LMTemperature float64 `env:"LM_TEMPERATURE" envDefault:"0.7"`
	LMMaxTokens   int     `env:"LM_MAX_TOKENS" envDefault:"1000"`
	LMTimeoutSec  int     `env:"LM_TIMEOUT_SECONDS" envDefault:"30"`

	// Batas karakter per dokumen yang dikirim sebagai konteks ke model
	ChatMaxDocChars int `env:"CHAT_MAX_DOC_CHARS" envDefault:"4000"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// 0 = job pembersihan riwayat berkala dimatikan
	ChatRetentionDays int `env:"CHAT_RETENTION_DAYS" envDefault:"0"`

	SMTPEmail    string `env:"SMTP_EMAIL"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("gagal membaca konfigurasi: %w", err)
	}
	return cfg, nil
}

var DB *gorm.DB

func InitDB(cfg *Config) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("Tidak dapat terhubung ke database:", err)
	}

	DB = db

	// Ambil *sql.DB untuk konfigurasi connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Tidak dapat mengambil sql.DB dari gorm:", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	err = DB.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.ChatSession{},
		&models.ChatExchange{},
	)
	if err != nil {
		log.Fatal("autoMigrate gagal: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}
