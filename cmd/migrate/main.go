package main

import (
	"context"
	"flag"
	"log"
	"time"

	"talentmatch/internal/config"
	"talentmatch/internal/database/migration"
	"talentmatch/internal/database/seeder"
	dbpostgres "talentmatch/internal/database/postgres"

	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "migrations", "directory containing V<n>__<name>.sql files")
	seed := flag.Bool("seed", false, "insert demo data after migrating")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	r := migration.Runner{Dir: *dir}
	if err := r.Run(ctx, db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations applied")

	if *seed {
		sr := seeder.Runner{Seeders: seeder.Defaults()}
		if err := sr.Run(ctx, db); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		log.Printf("demo data seeded")
	}
}
