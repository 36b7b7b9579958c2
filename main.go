package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/mcpserver"
	"github.com/SaiNageswarS/tiny-tales/storyteller"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	transport := flag.String("transport", "http", "MCP transport: http or stdio")
	flag.Parse()

	godotenv.Load()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := getCancellableContext()

	teller := storyteller.ProvideTeller(ctx, ccfgg)
	defer teller.Close()

	s := mcpserver.New(teller)

	switch *transport {
	case "stdio":
		err = mcpserver.ServeStdio(s)
	case "http":
		err = mcpserver.ServeHTTP(ctx, s, ccfgg.MCPAddr)
	default:
		logger.Fatal("Unknown transport", zap.String("transport", *transport))
	}

	if err != nil {
		logger.Fatal("Failed to serve MCP", zap.Error(err))
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
