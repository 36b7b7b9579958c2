package appconfig

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	// Story dataset
	DataFile          string `env:"DATA-FILE" ini:"data_file"`
	StoryStore        string `env:"STORY-STORE" ini:"story_store"`
	SQLitePath        string `env:"SQLITE-PATH" ini:"sqlite_path"`
	ExpectedRows      int    `env:"EXPECTED-ROWS" ini:"expected_rows"`
	MaxSampleAttempts int    `env:"MAX-SAMPLE-ATTEMPTS" ini:"max_sample_attempts"`

	// Translation
	TranslationBackend     string `env:"TRANSLATION-BACKEND" ini:"translation_backend"`
	TranslationTimeoutSecs int    `env:"TRANSLATION-TIMEOUT-SECS" ini:"translation_timeout_secs"`
	TranslatorLambda       string `env:"TRANSLATOR-LAMBDA" ini:"translator_lambda"`

	// Story rewriting
	RewriteProvider string `env:"REWRITE-PROVIDER" ini:"rewrite_provider"`
	RewriteModel    string `env:"REWRITE-MODEL" ini:"rewrite_model"`

	// MCP
	MCPAddr string `env:"MCP-ADDR" ini:"mcp_addr"`
	MCPURL  string `env:"MCP-URL" ini:"mcp_url"`

	// Agent and evals
	AgentProvider string `env:"AGENT-PROVIDER" ini:"agent_provider"`
	AgentModel    string `env:"AGENT-MODEL" ini:"agent_model"`
	JudgeProvider string `env:"JUDGE-PROVIDER" ini:"judge_provider"`
	JudgeModel    string `env:"JUDGE-MODEL" ini:"judge_model"`
}

const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"

	BackendGoogle = "google"
	BackendLambda = "lambda"
	BackendNone   = "none"
)

// TranslationTimeout returns the configured timeout, or 0 to keep the translator default.
func (c *AppConfig) TranslationTimeout() time.Duration {
	if c.TranslationTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.TranslationTimeoutSecs) * time.Second
}
