package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/pricofy/bedrock-translator/internal/completion"
)

// Clients are the process-wide AWS clients shared by every invocation.
type Clients struct {
	Completion completion.Client
	Lambda     *lambda.Client
}

// Builder assembles Clients from a Config. Config may be nil unless
// WithCompletion is used.
type Builder struct {
	IncludeCompletion bool

	Config    *Config
	AWSConfig aws.Config
}

func NewBuilder(cfg *Config, options ...func(*Builder)) *Builder {
	builder := &Builder{Config: cfg}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// WithCompletion makes the builder create the Bedrock completion client.
func WithCompletion() func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeCompletion = true
	}
}

func (b *Builder) SetupAWS(ctx context.Context) error {
	var err error
	b.AWSConfig, err = awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	awsv2.AWSV2Instrumentor(&b.AWSConfig.APIOptions)
	return nil
}

func (b *Builder) SetupCompletion() completion.Client {
	if !b.IncludeCompletion || b.Config == nil {
		return nil
	}
	return completion.NewBedrockFromConfig(b.AWSConfig, b.Config.RegionName, completion.BedrockOptions{
		ModelID:     b.Config.ModelName,
		Temperature: b.Config.Temperature,
		MaxTokens:   b.Config.MaxTokens,
	})
}

// Build loads AWS credentials and creates the clients inside an X-Ray
// segment, since cold-start setup runs outside any Lambda request.
func (b *Builder) Build(ctx context.Context, xraySegmentName string) (*Clients, error) {
	var err error
	if err = xray.Configure(xray.Config{ServiceVersion: "1.0.0"}); err != nil {
		return nil, fmt.Errorf("could not configure X-Ray: %w", err)
	}

	ctx, segment := xray.BeginSegment(ctx, xraySegmentName)
	defer func() { segment.Close(err) }()

	if err = b.SetupAWS(ctx); err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	return &Clients{
		Completion: b.SetupCompletion(),
		Lambda:     lambda.NewFromConfig(b.AWSConfig),
	}, nil
}
