package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/widyatama/go-account-api/config"
	"github.com/widyatama/go-account-api/pkg/hasher"
)

// Seeds an active, verified admin account so a fresh deployment has a
// way into the admin surface. Idempotent: re-running updates the name.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOr("SEED_ADMIN_PASSWORD", "changeme-now")
	name := envOr("SEED_ADMIN_NAME", "Administrator")

	hash, err := hasher.NewBcrypt(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO accounts (email, password_hash, name, role, status, is_email_verified)
		VALUES ($1, $2, $3, 'admin', 'active', TRUE)
		ON CONFLICT (email) WHERE NOT deleted DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	fmt.Printf("seeded admin account: id=%s email=%s\n", id, email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
