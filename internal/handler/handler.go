// Package handler provides the Lambda handlers for translation and greeting.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pricofy/bedrock-translator/internal/completion"
	"github.com/pricofy/bedrock-translator/internal/config"
	"github.com/pricofy/bedrock-translator/internal/domain"
	"github.com/pricofy/bedrock-translator/internal/logging"
	"github.com/pricofy/bedrock-translator/internal/prompt"
)

// InternalErrorMessage is the caller-facing text of every 500 response.
const InternalErrorMessage = "Internal server error during translation."

// Translator forwards input text to the completion service.
type Translator struct {
	client      completion.Client
	instruction string
	bodyStyle   config.BodyStyle
	logger      *logrus.Logger
}

// NewTranslator creates a Translator. The client is shared across invocations.
func NewTranslator(client completion.Client, instruction string, bodyStyle config.BodyStyle, logger *logrus.Logger) *Translator {
	return &Translator{
		client:      client,
		instruction: instruction,
		bodyStyle:   bodyStyle,
		logger:      logger,
	}
}

// Handle translates arguments.input. Failures are reported in the envelope;
// the returned error is always nil.
func (t *Translator) Handle(ctx context.Context, event domain.Event) (envelope domain.Envelope, err error) {
	log := logging.ForInvocation(ctx, t.logger, "translate")
	log.WithField("arguments", event.Arguments).Info("Handler invoked")

	input, ok := event.StringArgument("input")
	if !ok {
		log.WithField("arguments", event.Arguments).Warn("Invalid or missing 'input' argument")
		return invalidArgument("input"), nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Translation panicked")
			envelope = internalError(fmt.Errorf("%v", r))
		}
	}()

	messages := prompt.Build(t.instruction, input)
	log.WithField("input", input).Debug("Prepared messages for completion")

	result, err := t.client.Invoke(ctx, messages)
	if err != nil {
		log.WithError(err).Error("Error during completion invocation")
		return internalError(err), nil
	}

	translation := completion.Normalize(result)
	log.WithField("translation", translation).Info("Translation completed")

	return t.success(translation), nil
}

func (t *Translator) success(translation string) domain.Envelope {
	if t.bodyStyle == config.BodyStyleRaw {
		return domain.Envelope{StatusCode: http.StatusOK, Body: translation}
	}
	return domain.JSONEnvelope(http.StatusOK, map[string]string{"translation": translation})
}

// Greeter answers with a greeting for arguments.name.
type Greeter struct {
	logger *logrus.Logger
}

func NewGreeter(logger *logrus.Logger) *Greeter {
	return &Greeter{logger: logger}
}

// Handle returns {"message": "Hello, <name>."}.
func (g *Greeter) Handle(ctx context.Context, event domain.Event) (domain.Envelope, error) {
	log := logging.ForInvocation(ctx, g.logger, "greet")
	log.WithField("arguments", event.Arguments).Info("Handler invoked")

	name, ok := event.StringArgument("name")
	if !ok {
		log.WithField("arguments", event.Arguments).Warn("Invalid or missing 'name' argument")
		return invalidArgument("name"), nil
	}

	greeting := fmt.Sprintf("Hello, %s.", name)
	log.WithField("greeting", greeting).Info("Generated greeting")

	return domain.JSONEnvelope(http.StatusOK, map[string]string{"message": greeting}), nil
}

func invalidArgument(field string) domain.Envelope {
	return domain.JSONEnvelope(http.StatusBadRequest, map[string]string{
		"error": fmt.Sprintf("Missing or invalid '%s' argument.", field),
	})
}

func internalError(err error) domain.Envelope {
	return domain.JSONEnvelope(http.StatusInternalServerError, map[string]string{
		"error":   err.Error(),
		"message": InternalErrorMessage,
	})
}
