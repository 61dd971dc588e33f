package main

import (
	"fmt"
	"log"
	"os"

	"github.com/zeptoanalysis/server/internal/config"
	"github.com/zeptoanalysis/server/internal/database"
	"github.com/zeptoanalysis/server/internal/etl"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: etl <csv_file_path>")
		os.Exit(1)
	}
	csvPath := os.Args[1]

	if _, err := os.Stat(csvPath); err != nil {
		log.Fatalf("❌ CSV file not found: %s", csvPath)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	pipeline := etl.NewPipeline(db.DB, cfg.ETL.BatchSize)
	run, err := pipeline.Run(csvPath)
	if err != nil {
		log.Fatalf("❌ ETL pipeline failed: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ ETL pipeline completed successfully")
	fmt.Printf("   Source file:    %s\n", run.SourceFile)
	fmt.Printf("   Rows extracted: %d\n", run.RowsExtracted)
	fmt.Printf("   Rows loaded:    %d\n", run.RowsLoaded)
	fmt.Printf("   Duration:       %dms\n", run.DurationMs)
	fmt.Printf("   Summary:        %s\n", string(run.Summary))
}
