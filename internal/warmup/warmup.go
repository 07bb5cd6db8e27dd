// Package warmup answers scheduled warmup pings so Lambda instances stay warm.
// CloudWatch Events trigger these periodically; they never reach the handlers.
package warmup

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/pricofy/bedrock-translator/internal/domain"
)

const (
	// Source is the "source" value of a scheduled warmup ping.
	Source = "warmup"

	// Delay keeps this instance busy long enough for the copies it starts
	// to land on other instances.
	Delay = 75 * time.Millisecond

	// MaxConcurrency caps the number of copies one ping may start.
	MaxConcurrency = 50
)

// Event is the scheduled ping payload.
type Event struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// Response is the envelope body of a handled ping.
type Response struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the subset of the Lambda client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer handles warmup events for one function.
type Warmer struct {
	invoker      Invoker
	functionName string
	delay        time.Duration
}

// New creates a Warmer. functionName is normally AWS_LAMBDA_FUNCTION_NAME;
// when empty, or when invoker is nil, no self-invocation happens.
func New(invoker Invoker, functionName string) *Warmer {
	return &Warmer{invoker: invoker, functionName: functionName, delay: Delay}
}

// IsWarmupEvent reports whether raw is a warmup ping. Concurrency is
// clamped to [0, MaxConcurrency].
func IsWarmupEvent(raw json.RawMessage) (*Event, bool) {
	var eventMap map[string]any
	if err := json.Unmarshal(raw, &eventMap); err != nil {
		return nil, false
	}

	source, ok := eventMap["source"].(string)
	if !ok || source != Source {
		return nil, false
	}

	event := &Event{Source: source}

	if concurrency, ok := eventMap["concurrency"].(float64); ok && concurrency > 0 {
		event.Concurrency = int(min(concurrency, MaxConcurrency))
	}

	return event, true
}

// Handle answers a ping and, when asked for concurrency, starts that many
// asynchronous copies of this function so more instances stay warm.
func (w *Warmer) Handle(ctx context.Context, event *Event) domain.Envelope {
	copies := min(event.Concurrency, MaxConcurrency)
	instancesWarmed := 1

	if copies > 0 && w.invoker != nil && w.functionName != "" {
		if err := w.selfInvoke(ctx, copies); err == nil {
			instancesWarmed += copies
		}
	}

	time.Sleep(w.delay)

	return domain.JSONEnvelope(http.StatusOK, Response{
		Status:          "warm",
		InstancesWarmed: instancesWarmed,
	})
}

// selfInvoke fires count Event-type invocations of this function and
// returns the first failure.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// Copies must not fan out again.
	payload, err := json.Marshal(Event{Source: Source, Concurrency: 0})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})

			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
