// Package main is the entry point for the greeting Lambda function.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pricofy/bedrock-translator/internal/config"
	"github.com/pricofy/bedrock-translator/internal/handler"
	"github.com/pricofy/bedrock-translator/internal/logging"
	"github.com/pricofy/bedrock-translator/internal/warmup"
)

func main() {
	level, err := config.LoadLogLevel()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := logging.New(level)

	clients, err := config.NewBuilder(nil).Build(context.Background(), "greet.config")
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize AWS clients")
	}

	greeter := handler.NewGreeter(logger)
	warmer := warmup.New(clients.Lambda, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"))

	lambda.Start(handler.Lambda(warmer, greeter.Handle))
}
