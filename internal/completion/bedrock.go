package completion

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/pricofy/bedrock-translator/internal/domain"
)

// ConverseAPI is the subset of the Bedrock runtime client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockOptions are the inference settings sent with every request.
type BedrockOptions struct {
	ModelID     string
	Temperature float64
	MaxTokens   int
}

// Bedrock is a Client backed by the Bedrock Converse API.
type Bedrock struct {
	api     ConverseAPI
	options BedrockOptions
}

// NewBedrock wraps a Converse API client.
func NewBedrock(api ConverseAPI, options BedrockOptions) *Bedrock {
	return &Bedrock{api: api, options: options}
}

// NewBedrockFromConfig creates the Bedrock runtime client for region.
func NewBedrockFromConfig(cfg aws.Config, region string, options BedrockOptions) *Bedrock {
	client := bedrockruntime.NewFromConfig(cfg, func(o *bedrockruntime.Options) {
		if region != "" {
			o.Region = region
		}
	})
	return NewBedrock(client, options)
}

// Invoke sends the prompt in a single Converse call.
func (b *Bedrock) Invoke(ctx context.Context, messages []domain.Message) (Result, error) {
	input, err := b.converseInput(messages)
	if err != nil {
		return nil, err
	}

	var output *bedrockruntime.ConverseOutput
	err = xray.Capture(ctx, "completion.converse", func(tracedCtx context.Context) error {
		_ = xray.AddAnnotation(tracedCtx, "model", b.options.ModelID)

		var err error
		output, err = b.api.Converse(tracedCtx, input)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("converse with %s: %w", b.options.ModelID, err)
	}

	return resultFromOutput(output), nil
}

// converseInput maps prompt messages onto the Converse request.
// System messages become system blocks; human messages become user turns.
func (b *Bedrock) converseInput(messages []domain.Message) (*bedrockruntime.ConverseInput, error) {
	if b.options.MaxTokens <= 0 || b.options.MaxTokens > math.MaxInt32 {
		return nil, fmt.Errorf("max tokens %d out of range", b.options.MaxTokens)
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.options.ModelID),
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(float32(b.options.Temperature)),
			MaxTokens:   aws.Int32(int32(b.options.MaxTokens)),
		},
	}

	for _, message := range messages {
		switch message.Role {
		case domain.RoleSystem:
			input.System = append(input.System, &types.SystemContentBlockMemberText{Value: message.Text})
		case domain.RoleHuman:
			input.Messages = append(input.Messages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: message.Text}},
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", message.Role)
		}
	}

	return input, nil
}

// resultFromOutput converts a Converse response into a Result.
func resultFromOutput(output *bedrockruntime.ConverseOutput) Result {
	if output == nil {
		return Other{}
	}

	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return Other{Value: output.Output}
	}

	parts := make([]Part, 0, len(message.Value.Content))
	for _, block := range message.Value.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			parts = append(parts, TextPart{Text: b.Value})
		default:
			parts = append(parts, OpaquePart{Value: b})
		}
	}

	return ContentList{Parts: parts}
}
