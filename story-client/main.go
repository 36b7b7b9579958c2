package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/storyclient"
	"go.uber.org/zap"
)

func main() {
	question := flag.String("q", "", "question to ask; read from stdin when empty")
	loop := flag.Bool("loop", false, "keep asking questions in one conversation")
	provider := flag.String("provider", "", "override agent_provider from config.ini")
	model := flag.String("model", "", "override agent_model from config.ini")
	flag.Parse()

	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *provider != "" {
		ccfgg.AgentProvider = *provider
	}
	if *model != "" {
		ccfgg.AgentModel = *model
	}

	ctx := context.Background()

	client, err := storyclient.Connect(ctx, ccfgg)
	if err != nil {
		logger.Fatal("Failed to start story client", zap.Error(err))
	}
	defer client.Close()

	stdin := bufio.NewScanner(os.Stdin)
	next := func() (string, bool) {
		fmt.Println("You can ask for story in english/tamil/hindi. What would you like?")
		if !stdin.Scan() {
			return "", false
		}
		return strings.TrimSpace(stdin.Text()), true
	}

	q := strings.TrimSpace(*question)
	if q == "" {
		var ok bool
		if q, ok = next(); !ok {
			return
		}
	}

	for {
		if q != "" {
			answer, err := client.Ask(ctx, q)
			if err != nil {
				logger.Error("Failed to answer", zap.Error(err))
			} else {
				fmt.Println("User:", q)
				fmt.Println("Assistant:", answer)
			}
		}

		if !*loop {
			return
		}

		var ok bool
		if q, ok = next(); !ok {
			return
		}
	}
}
