package main

import (
	"context"
	"flag"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/story"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Builds the SQLite story index from the CSV dataset.
func main() {
	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	csvPath := flag.String("csv", ccfgg.DataFile, "source CSV dataset")
	dbPath := flag.String("db", ccfgg.SQLitePath, "SQLite index to create or refresh")
	flag.Parse()

	src, err := story.OpenCSV(*csvPath, story.WithExpectedRows(ccfgg.ExpectedRows))
	if err != nil {
		logger.Fatal("Failed to open story dataset", zap.Error(err))
	}
	defer src.Close()

	dst, err := story.CreateSQLite(*dbPath)
	if err != nil {
		logger.Fatal("Failed to open story index", zap.Error(err))
	}
	defer dst.Close()

	rows, err := story.ImportCSV(context.Background(), dst, src)
	if err != nil {
		logger.Fatal("Failed to import stories", zap.Error(err))
	}

	logger.Info("Story index ready", zap.String("path", *dbPath), zap.String("rows", humanize.Comma(int64(rows))))
}
