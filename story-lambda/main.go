package main

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/lambdahandler"
	"github.com/SaiNageswarS/tiny-tales/storyteller"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	teller := storyteller.ProvideTeller(context.Background(), ccfgg)
	handler := lambdahandler.New(teller)

	lambda.Start(handler.HandleEvent)
}
