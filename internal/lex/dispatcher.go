package lex

import (
	"context"
	"errors"
	"fmt"
	"log"

	validatorv10 "github.com/go-playground/validator/v10"
)

var (
	// ErrUnsupportedIntent is matched by every *UnsupportedIntentError.
	ErrUnsupportedIntent = errors.New("unsupported intent")
	// ErrInvalidEvent wraps envelope validation failures.
	ErrInvalidEvent = errors.New("invalid lex event")
)

// UnsupportedIntentError is returned by Dispatch for intents without a handler.
type UnsupportedIntentError struct {
	Intent string
}

func (e *UnsupportedIntentError) Error() string {
	return fmt.Sprintf("intent with name %s not supported", e.Intent)
}

func (e *UnsupportedIntentError) Is(target error) bool {
	return target == ErrUnsupportedIntent
}

// IntentHandler handles one intent.
type IntentHandler interface {
	Handle(ctx context.Context, ev Event) (Response, error)
}

// HandlerFunc adapts a function to IntentHandler.
type HandlerFunc func(ctx context.Context, ev Event) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, ev Event) (Response, error) {
	return f(ctx, ev)
}

// Dispatcher routes events to handlers by intent name.
type Dispatcher struct {
	handlers map[string]IntentHandler
	validate *validatorv10.Validate
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: map[string]IntentHandler{},
		validate: validatorv10.New(),
	}
}

// Register binds h to intentName, replacing any previous handler.
func (d *Dispatcher) Register(intentName string, h IntentHandler) {
	d.handlers[intentName] = h
}

// Dispatch validates the event envelope and calls the handler of its intent.
// It has the signature lambda.Start expects.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Response, error) {
	if err := d.validate.Struct(ev); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	log.Printf("[dispatch] bot=%s userId=%s intentName=%s source=%s",
		ev.Bot.Name, ev.UserID, ev.CurrentIntent.Name, ev.InvocationSource)

	h, ok := d.handlers[ev.CurrentIntent.Name]
	if !ok {
		return Response{}, &UnsupportedIntentError{Intent: ev.CurrentIntent.Name}
	}
	return h.Handle(ctx, ev)
}
