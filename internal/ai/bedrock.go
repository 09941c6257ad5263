package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxOutputTokens  = 4000
	temperature      = 0.2
)

type invokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock invokes an Anthropic model through the AWS Bedrock runtime.
type Bedrock struct {
	client  invokeModelAPI
	modelId string
	logger  *zap.Logger
}

// NewBedrock creates a Bedrock provider using the default AWS credential chain.
func NewBedrock(ctx context.Context, region, modelId string, logger *zap.Logger) (*Bedrock, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelId: modelId,
		logger:  logger,
	}, nil
}

// NewBedrockWithClient creates a Bedrock provider around an existing runtime
// client. Intended for tests.
func NewBedrockWithClient(client invokeModelAPI, modelId string, logger *zap.Logger) *Bedrock {
	return &Bedrock{client: client, modelId: modelId, logger: logger}
}

func (b *Bedrock) Name() string { return "bedrock" }

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (b *Bedrock) Invoke(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxOutputTokens,
		Temperature:      temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	b.logger.Debug("invoking model", zap.String("model_id", b.modelId), zap.Int("prompt_len", len(prompt)))

	contentType := "application/json"
	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &b.modelId,
		ContentType: &contentType,
		Accept:      &contentType,
		Body:        body,
	})
	if err != nil {
		return "", classifyBedrockError(err)
	}

	if len(output.Body) == 0 {
		return "", errors.New("empty response body from Bedrock API")
	}

	var resp claudeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", &fatalError{msg: "invalid JSON response from Bedrock API", err: err}
	}

	if len(resp.Content) == 0 {
		return "", &fatalError{msg: "invalid response structure from Bedrock API - missing content array"}
	}

	text := resp.Content[0].Text
	if text == "" {
		return "", errors.New("no text content in Bedrock API response")
	}

	return text, nil
}

// classifyBedrockError splits backend failures into retryable transport
// errors and fatal configuration errors, keyed on the smithy API error code.
func classifyBedrockError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("calling Bedrock API: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "ThrottlingException":
		return fmt.Errorf("API rate limit exceeded: %w", err)
	case "ValidationException":
		return &fatalError{msg: "invalid request format sent to AI service", err: err}
	case "AccessDeniedException":
		return &fatalError{msg: "access denied to AI service, check credentials", err: err}
	case "ModelStreamErrorException":
		return fmt.Errorf("AI model temporarily unavailable: %w", err)
	default:
		return fmt.Errorf("calling Bedrock API: %w", err)
	}
}
