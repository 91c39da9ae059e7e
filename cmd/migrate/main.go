package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"gorm.io/gorm"

	"github.com/molinerisit/wa-bot-sheets/internal/config"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM migration...")

	// 3. Pre-Migration: extensions AutoMigrate does not create
	color.Yellow("Step 1: Extensions")
	for _, sql := range []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	} {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: %s failed: %v. Continuing...", sql, err)
		}
	}

	// 4. AutoMigrate All Models
	models := model.All()
	color.Yellow("Step 2: AutoMigrate for %d tables", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: vector width and search index
	color.Yellow("Step 3: Vector column and index")
	postMigrationSQL := []string{}
	if dim := cfg.Rag.Dimension; dim > 0 && currentDimension(db) != dim {
		// existing vectors of another width cannot be cast; they must be re-ingested
		color.Yellow("Resizing rag_chunks.embedding to %d, stored chunks are dropped", dim)
		postMigrationSQL = append(postMigrationSQL,
			`DELETE FROM rag_chunks;`,
			fmt.Sprintf(`ALTER TABLE rag_chunks ALTER COLUMN embedding TYPE vector(%d);`, dim),
		)
	}
	postMigrationSQL = append(postMigrationSQL,
		`CREATE INDEX IF NOT EXISTS idx_rag_chunks_embedding ON rag_chunks USING hnsw (embedding vector_cosine_ops);`,
	)
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("Success: Database migration completed.")
}

// currentDimension reads the declared width of the vector column.
func currentDimension(db *gorm.DB) int {
	var dim int
	err := db.Raw(`SELECT atttypmod FROM pg_attribute WHERE attrelid = 'rag_chunks'::regclass AND attname = 'embedding'`).Scan(&dim).Error
	if err != nil {
		return model.DefaultEmbeddingDimension
	}
	return dim
}
