package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInvoker struct {
	input  *bedrockruntime.InvokeModelInput
	output *bedrockruntime.InvokeModelOutput
	err    error
}

func (s *stubInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	s.input = params
	return s.output, s.err
}

func claudeBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(claudeResponse{Content: []claudeBlock{{Type: "text", Text: text}}})
	require.NoError(t, err)
	return body
}

func TestBedrockInvoke_ReturnsText(t *testing.T) {
	stub := &stubInvoker{output: &bedrockruntime.InvokeModelOutput{Body: claudeBody(t, validArray)}}
	b := NewBedrockWithClient(stub, "model-id", zap.NewNop())

	text, err := b.Invoke(context.Background(), "review this")
	require.NoError(t, err)
	assert.Equal(t, validArray, text)

	require.NotNil(t, stub.input)
	assert.Equal(t, "model-id", *stub.input.ModelId)

	var req claudeRequest
	require.NoError(t, json.Unmarshal(stub.input.Body, &req))
	assert.Equal(t, anthropicVersion, req.AnthropicVersion)
	assert.Equal(t, maxOutputTokens, req.MaxTokens)
	assert.InDelta(t, temperature, req.Temperature, 1e-9)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, systemPrompt, req.Messages[0].Content)
	assert.Equal(t, "review this", req.Messages[1].Content)
}

func TestBedrockInvoke_InvalidJSONIsFatal(t *testing.T) {
	stub := &stubInvoker{output: &bedrockruntime.InvokeModelOutput{Body: []byte("not json")}}
	b := NewBedrockWithClient(stub, "model-id", zap.NewNop())

	_, err := b.Invoke(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestBedrockInvoke_MissingContentIsFatal(t *testing.T) {
	stub := &stubInvoker{output: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[]}`)}}
	b := NewBedrockWithClient(stub, "model-id", zap.NewNop())

	_, err := b.Invoke(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestBedrockInvoke_EmptyBodyIsRetryable(t *testing.T) {
	stub := &stubInvoker{output: &bedrockruntime.InvokeModelOutput{}}
	b := NewBedrockWithClient(stub, "model-id", zap.NewNop())

	_, err := b.Invoke(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, IsFatal(err))
}

func TestClassifyBedrockError(t *testing.T) {
	tests := []struct {
		code  string
		fatal bool
	}{
		{"AccessDeniedException", true},
		{"ValidationException", true},
		{"ThrottlingException", false},
		{"ModelStreamErrorException", false},
		{"SomethingElseException", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := classifyBedrockError(&smithy.GenericAPIError{Code: tt.code, Message: "boom"})
			require.Error(t, err)
			assert.Equal(t, tt.fatal, IsFatal(err))
		})
	}
}

func TestClassifyBedrockError_PlainError(t *testing.T) {
	err := classifyBedrockError(errors.New("dial tcp: timeout"))
	require.Error(t, err)
	assert.False(t, IsFatal(err))
}
