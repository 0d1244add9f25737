package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"school_mapper/internal/models"
)

// Load reads .env into the process environment if the file exists.
// Must run before any Env lookup, including the logger's.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}
}

// InitDB opens the Postgres connection from environment variables and
// migrates the route models. The returned handle is passed explicitly
// to whatever needs it; there is no package-level database state.
// Call Load first so .env-sourced variables are visible.
func InitDB() *gorm.DB {
	host := Env("DB_HOST", "localhost")
	port := Env("DB_PORT", "5432")
	user := Env("DB_USER", "postgres")
	password := Env("DB_PASSWORD", "password")
	dbname := Env("DB_NAME", "school_mapper")
	sslmode := Env("DB_SSLMODE", "disable")
	timezone := Env("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.SchoolRoute{},
		&models.StudentRoute{},
		&models.TeacherRoute{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	return db
}

// Env reads an environment variable or returns the provided default.
func Env(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
