// Package completion talks to the hosted text completion service and
// normalizes whatever it returns into a plain string.
package completion

import (
	"context"

	"github.com/pricofy/bedrock-translator/internal/domain"
)

// Client sends a prompt to a completion service.
type Client interface {
	Invoke(ctx context.Context, messages []domain.Message) (Result, error)
}
