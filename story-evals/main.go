package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/tiny-tales/appconfig"
	"github.com/SaiNageswarS/tiny-tales/evals"
	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/storyclient"
	"go.uber.org/zap"
)

const defaultJudgeModel = "gemini-2.5-pro"

func main() {
	only := flag.String("case", "", "run only the named case")
	flag.Parse()

	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	client, err := storyclient.Connect(ctx, ccfgg)
	if err != nil {
		logger.Fatal("Failed to start story client", zap.Error(err))
	}
	defer client.Close()

	judgeModel := strings.TrimSpace(ccfgg.JudgeModel)
	if judgeModel == "" {
		judgeModel = defaultJudgeModel
	}
	judgeLLM, err := llm.NewClient(ccfgg.JudgeProvider, judgeModel)
	if err != nil {
		logger.Fatal("Failed to create judge client", zap.Error(err))
	}

	cases := evals.DefaultCases()
	if *only != "" {
		var selected []evals.Case
		for _, c := range cases {
			if c.Name == *only {
				selected = append(selected, c)
			}
		}
		if len(selected) == 0 {
			logger.Fatal("Unknown case", zap.String("case", *only))
		}
		cases = selected
	}

	dataset := &evals.Dataset{
		Cases: cases,
		Judge: evals.NewLLMJudge(judgeLLM),
	}

	report, err := dataset.Evaluate(ctx, client.AskOnce)
	if err != nil {
		logger.Fatal("Evaluation failed", zap.Error(err))
	}

	if err := report.Print(os.Stdout); err != nil {
		logger.Fatal("Failed to print report", zap.Error(err))
	}
}
