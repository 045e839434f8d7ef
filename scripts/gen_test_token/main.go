package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/olkkari/profiles"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// mints a local access token for a dev profile, creating the profile
// row when it does not exist yet
func main() {
	email := flag.String("email", "host@olkkari.dev", "profile email")
	name := flag.String("name", "Dev Host", "profile full name")
	approved := flag.Bool("approved", true, "mark the profile approved")
	admin := flag.Bool("admin", false, "give the profile the admin role")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConnString := os.Getenv("SUPABASE_CONNECTION_STRING")
	if dbConnString == "" {
		log.Fatal("SUPABASE_CONNECTION_STRING not set")
	}

	ctx := context.Background()

	cfg, err := pgxpool.ParseConfig(dbConnString)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var userID string
	err = db.QueryRow(ctx, "SELECT id FROM profiles WHERE email = $1", *email).Scan(&userID)
	if err != nil {
		userID = uuid.New().String()
	}

	repo := profiles.NewRepository(db)

	profile, err := repo.Upsert(ctx, profiles.UpsertProfileRequest{ID: userID, Email: *email, FullName: *name})
	if err != nil {
		log.Fatalf("Failed to upsert profile: %v", err)
	}

	if *approved {
		if profile, err = repo.Approve(ctx, userID); err != nil {
			log.Fatalf("Failed to approve profile: %v", err)
		}
	}

	role := "member"
	if *admin {
		role = "admin"
	}

	if _, err := db.Exec(ctx, "UPDATE profiles SET role = $2 WHERE id = $1", userID, role); err != nil {
		log.Fatalf("Failed to set role: %v", err)
	}

	token, err := auth.GenerateJWT(userID, *email, map[string]any{
		"full_name":           profile.FullName,
		"onboarding_complete": true,
	})
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("profile %s (%s) role=%s approved=%t\n\n", userID, *email, role, profile.IsApproved)
	fmt.Printf("export TEST_TOKEN=\"%s\"\n", token)
}
