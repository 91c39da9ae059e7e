package main

import (
	"context"
	_ "embed"
	"flag"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/molinerisit/wa-bot-sheets/internal/config"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/database"
)

//go:embed base.yaml
var baseFixtures []byte

func main() {
	file := flag.String("file", "", "fixtures YAML file (defaults to the embedded base.yaml)")
	overwrite := flag.Bool("overwrite", false, "overwrite existing bot_configs keys")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	raw := baseFixtures
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
		raw = b
	}
	fx, err := ParseFixtures(raw)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding bot data...")
	report, err := Seed(context.Background(), unitofwork.NewRepositoryFactory(db), fx, *overwrite)
	if err != nil {
		color.Red("Error: seeding failed: %v", err)
		os.Exit(1)
	}

	tables := make([]string, 0, len(report))
	for t := range report {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		color.Green("  %-15s %d", t, report[t])
	}
	color.Green("Seeding completed!")
}
