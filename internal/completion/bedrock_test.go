package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/pricofy/bedrock-translator/internal/domain"
)

type fakeConverse struct {
	input  *bedrockruntime.ConverseInput
	output *bedrockruntime.ConverseOutput
	err    error
	calls  int
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.calls++
	f.input = params
	return f.output, f.err
}

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	ctx, seg := xray.BeginSegment(context.Background(), "completion.test")
	t.Cleanup(func() { seg.Close(nil) })
	return ctx
}

func messageOutput(blocks ...types.ContentBlock) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: blocks},
		},
	}
}

var testOptions = BedrockOptions{
	ModelID:     "anthropic.claude-3-5-sonnet-20240620-v1:0",
	Temperature: 0,
	MaxTokens:   4096,
}

func TestBedrockInvoke_BuildsConverseInput(t *testing.T) {
	api := &fakeConverse{output: messageOutput(&types.ContentBlockMemberText{Value: "Hello"})}
	client := NewBedrock(api, testOptions)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Text: "translate"},
		{Role: domain.RoleHuman, Text: "こんにちは"},
	}
	if _, err := client.Invoke(tracedContext(t), messages); err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}

	input := api.input
	if aws.ToString(input.ModelId) != testOptions.ModelID {
		t.Errorf("ModelId = %q, want %q", aws.ToString(input.ModelId), testOptions.ModelID)
	}
	if aws.ToInt32(input.InferenceConfig.MaxTokens) != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", aws.ToInt32(input.InferenceConfig.MaxTokens))
	}
	if aws.ToFloat32(input.InferenceConfig.Temperature) != 0 {
		t.Errorf("Temperature = %v, want 0", aws.ToFloat32(input.InferenceConfig.Temperature))
	}

	if len(input.System) != 1 {
		t.Fatalf("System has %d blocks, want 1", len(input.System))
	}
	system, ok := input.System[0].(*types.SystemContentBlockMemberText)
	if !ok || system.Value != "translate" {
		t.Errorf("System[0] = %#v, want text %q", input.System[0], "translate")
	}

	if len(input.Messages) != 1 {
		t.Fatalf("Messages has %d entries, want 1", len(input.Messages))
	}
	if input.Messages[0].Role != types.ConversationRoleUser {
		t.Errorf("Messages[0].Role = %q, want user", input.Messages[0].Role)
	}
	text, ok := input.Messages[0].Content[0].(*types.ContentBlockMemberText)
	if !ok || text.Value != "こんにちは" {
		t.Errorf("Messages[0].Content[0] = %#v, want text %q", input.Messages[0].Content[0], "こんにちは")
	}
}

func TestBedrockInvoke_ReturnsContentList(t *testing.T) {
	api := &fakeConverse{output: messageOutput(&types.ContentBlockMemberText{Value: "Good afternoon"})}
	client := NewBedrock(api, testOptions)

	result, err := client.Invoke(tracedContext(t), []domain.Message{{Role: domain.RoleHuman, Text: "こんにちは"}})
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}

	if got := Normalize(result); got != "Good afternoon" {
		t.Errorf("Normalize(result) = %q, want %q", got, "Good afternoon")
	}
}

func TestBedrockInvoke_WrapsError(t *testing.T) {
	apiErr := errors.New("ThrottlingException: rate exceeded")
	api := &fakeConverse{err: apiErr}
	client := NewBedrock(api, testOptions)

	_, err := client.Invoke(tracedContext(t), []domain.Message{{Role: domain.RoleHuman, Text: "hi"}})
	if err == nil {
		t.Fatal("Invoke() should have returned error")
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("Invoke() error = %v, want it to wrap %v", err, apiErr)
	}
}

func TestBedrockInvoke_RejectsUnknownRole(t *testing.T) {
	api := &fakeConverse{}
	client := NewBedrock(api, testOptions)

	_, err := client.Invoke(context.Background(), []domain.Message{{Role: "assistant", Text: "hi"}})
	if err == nil {
		t.Fatal("Invoke() should have returned error for unknown role")
	}
	if api.calls != 0 {
		t.Errorf("Converse called %d times, want 0", api.calls)
	}
}

func TestBedrockInvoke_RejectsMaxTokensOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		maxTokens int
	}{
		{"zero", 0},
		{"negative", -1},
		{"past int32", 1 << 31},
		{"wraps to one as int32", 1<<32 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeConverse{}
			options := testOptions
			options.MaxTokens = tt.maxTokens
			client := NewBedrock(api, options)

			_, err := client.Invoke(context.Background(), []domain.Message{{Role: domain.RoleHuman, Text: "hi"}})
			if err == nil {
				t.Fatalf("Invoke() with MaxTokens=%d should have returned error", tt.maxTokens)
			}
			if api.calls != 0 {
				t.Errorf("Converse called %d times, want 0", api.calls)
			}
		})
	}
}

func TestResultFromOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   *bedrockruntime.ConverseOutput
		expected string
	}{
		{
			name:     "nil output",
			output:   nil,
			expected: "",
		},
		{
			name:     "output without message",
			output:   &bedrockruntime.ConverseOutput{},
			expected: "",
		},
		{
			name:     "empty message content",
			output:   messageOutput(),
			expected: "[]",
		},
		{
			name:     "text block",
			output:   messageOutput(&types.ContentBlockMemberText{Value: "こんにちは"}),
			expected: "こんにちは",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(resultFromOutput(tt.output))
			if got != tt.expected {
				t.Errorf("Normalize(resultFromOutput()) = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResultFromOutput_NonTextBlockIsOpaque(t *testing.T) {
	block := &types.ContentBlockMemberToolUse{Value: types.ToolUseBlock{Name: aws.String("lookup")}}
	result := resultFromOutput(messageOutput(block))

	list, ok := result.(ContentList)
	if !ok {
		t.Fatalf("resultFromOutput() = %T, want ContentList", result)
	}
	if len(list.Parts) != 1 {
		t.Fatalf("ContentList has %d parts, want 1", len(list.Parts))
	}
	if _, ok := list.Parts[0].(OpaquePart); !ok {
		t.Errorf("Parts[0] = %T, want OpaquePart", list.Parts[0])
	}
	if Normalize(result) == "" {
		t.Error("opaque part should normalize to its string representation")
	}
}
