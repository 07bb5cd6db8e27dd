// Package main is the entry point for the translation Lambda function.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/pricofy/bedrock-translator/internal/config"
	"github.com/pricofy/bedrock-translator/internal/handler"
	"github.com/pricofy/bedrock-translator/internal/logging"
	"github.com/pricofy/bedrock-translator/internal/warmup"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := logging.New(cfg.LogLevel)

	clients, err := config.NewBuilder(cfg, config.WithCompletion()).Build(ctx, "translate.config")
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize AWS clients")
	}

	logger.WithFields(logrus.Fields{
		"model":  cfg.ModelName,
		"region": cfg.RegionName,
	}).Info("Translation function initialized")

	translator := handler.NewTranslator(clients.Completion, cfg.Instruction(), config.BodyStyle(cfg.BodyStyle), logger)
	warmer := warmup.New(clients.Lambda, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"))

	lambda.Start(handler.Lambda(warmer, translator.Handle))
}
