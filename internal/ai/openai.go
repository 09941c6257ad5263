package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/domain"
)

// OpenAI invokes a chat-completion model with a strict JSON-schema response
// format, then unwraps the object envelope into the bare array the response
// decoder expects.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAI(apiKey, model string, logger *zap.Logger, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Invoke(ctx context.Context, prompt string) (string, error) {
	o.logger.Debug("invoking model", zap.String("model", o.model), zap.Int("prompt_len", len(prompt)))

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        openai.F("review_comments_response"),
		Description: openai.F("A list of code review comments"),
		Schema:      openai.F(domain.ReviewBatchSchema),
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type:       openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(schemaParam),
			},
		),
		Model:       openai.F(o.model),
		Temperature: openai.F(temperature),
		MaxTokens:   openai.F(int64(maxOutputTokens)),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(chatCompletion.Choices) == 0 {
		return "", &fatalError{msg: "invalid response structure from OpenAI API - no choices"}
	}

	content := chatCompletion.Choices[0].Message.Content

	// Structured output arrives as {"comments": [...]}; hand the decoder the
	// bare array when the envelope parses, the raw text otherwise.
	var batch domain.ReviewBatch
	if err := json.Unmarshal([]byte(content), &batch); err == nil && batch.Comments != nil {
		unwrapped, err := json.Marshal(batch.Comments)
		if err == nil {
			return string(unwrapped), nil
		}
	}

	return content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return &fatalError{msg: "access denied to AI service, check credentials", err: err}
		case 400, 422:
			return &fatalError{msg: "invalid request format sent to AI service", err: err}
		}
	}
	return fmt.Errorf("calling OpenAI API: %w", err)
}
