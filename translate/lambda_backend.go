package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaInvoker is the subset of the Lambda client used by LambdaBackend.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaBackend sends all chunks to a translator Lambda in a single invocation.
type LambdaBackend struct {
	client       LambdaInvoker
	functionName string
}

type lambdaTranslateRequest struct {
	Texts      []string `json:"texts"`
	TargetLang string   `json:"target_lang"`
}

type lambdaTranslateResponse struct {
	Translations []string `json:"translations"`
	Error        string   `json:"error,omitempty"`
}

// NewLambdaBackend loads AWS credentials from the default chain.
func NewLambdaBackend(ctx context.Context, functionName string) (*LambdaBackend, error) {
	if functionName == "" {
		return nil, fmt.Errorf("translator lambda function name is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewLambdaBackendWithClient(lambda.NewFromConfig(cfg), functionName), nil
}

func NewLambdaBackendWithClient(client LambdaInvoker, functionName string) *LambdaBackend {
	return &LambdaBackend{client: client, functionName: functionName}
}

func (b *LambdaBackend) Name() string {
	return "lambda:" + b.functionName
}

func (b *LambdaBackend) Translate(ctx context.Context, chunks []string, target Language) ([]string, error) {
	payload, err := json.Marshal(lambdaTranslateRequest{Texts: chunks, TargetLang: string(target)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := b.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(b.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", b.functionName, err)
	}

	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp lambdaTranslateResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}

	if len(resp.Translations) != len(chunks) {
		return nil, fmt.Errorf("translator returned %d translations for %d chunks", len(resp.Translations), len(chunks))
	}

	return resp.Translations, nil
}
