//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package orchestrator drives the tool-call loop: it streams model turns,
// assembles tool calls, executes them through the gateway, and feeds results
// back until the model answers in plain text or a stop condition fires.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sommda/gamemaster-client/gateway"
	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/session"
	"github.com/sommda/gamemaster-client/stream"
	"github.com/sommda/gamemaster-client/telemetry"
	"github.com/sommda/gamemaster-client/tool"
	"github.com/sommda/gamemaster-client/transport"
	"github.com/sommda/gamemaster-client/wire"
)

// DefaultMaxIterations is the model round-trip ceiling per run.
const DefaultMaxIterations = 20

// Hooks receive live progress during a run. All hooks are optional and are
// called from the run's goroutine.
type Hooks struct {
	// OnText is called for every assistant text token as it streams in.
	OnText func(delta string)

	// OnToolCall is called for each call about to be executed.
	OnToolCall func(call model.ToolCallRecord)

	// OnToolResult is called for each completed tool result.
	OnToolResult func(result model.ToolResultRecord)
}

// Result is the outcome of one completed run.
type Result struct {
	// FinalText is the assistant text of the last model turn.
	FinalText string

	// StopReason reports how the run ended.
	StopReason model.StopReason

	// Iterations is the number of model round trips consumed.
	Iterations int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxIterations overrides the round-trip ceiling.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithModel sets the model name sent in every session payload.
func WithModel(name string) Option {
	return func(o *Orchestrator) {
		o.model = name
	}
}

// WithSystemPrompt sets the system prompt sent in every session payload.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) {
		o.systemPrompt = prompt
	}
}

// WithMaxTokens sets the per-turn token limit sent to the backend.
func WithMaxTokens(n int) Option {
	return func(o *Orchestrator) {
		o.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature sent to the backend.
func WithTemperature(t float64) Option {
	return func(o *Orchestrator) {
		o.temperature = &t
	}
}

// WithRecorder persists one exchange per completed run under the given
// session key.
func WithRecorder(r session.Recorder, key string) Option {
	return func(o *Orchestrator) {
		o.recorder = r
		o.sessionKey = key
	}
}

// Orchestrator runs the tool-call loop against a transport, a gateway and a
// tool runtime. Starting a new run cancels the previous one.
type Orchestrator struct {
	transport transport.Transport
	gateway   *gateway.Gateway
	runtime   tool.Runtime

	maxIterations int
	model         string
	systemPrompt  string
	maxTokens     int
	temperature   *float64
	recorder      session.Recorder
	sessionKey    string

	mu     sync.Mutex
	active *activeRun
}

type activeRun struct {
	cancel context.CancelFunc
}

// New creates an orchestrator.
func New(t transport.Transport, g *gateway.Gateway, rt tool.Runtime, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport:     t,
		gateway:       g,
		runtime:       rt,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the loop until the model answers without tool calls, the loop
// breaks, or the iteration ceiling is reached. The conversation is mutated in
// place: every executed tool-call turn and its results turn are appended, so
// the caller always sees the history the model saw. Transport and provider
// errors abort the current iteration and surface without appending anything
// for it.
func (o *Orchestrator) Run(ctx context.Context, provider model.Provider, conv *model.Conversation, hooks Hooks) (*Result, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	ctx, cancel := o.begin(ctx)
	defer cancel()

	runID := uuid.NewString()
	log.Debugf("Starting run %s (provider=%s)", runID, provider)

	ctx, span := telemetry.Tracer.Start(ctx, telemetry.SpanNameRunTurn)
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.KeyRunID, runID),
		attribute.String(telemetry.KeyProvider, provider.String()),
		attribute.String(telemetry.KeySessionKey, o.sessionKey),
	)

	tools := o.listTools(ctx)

	// Signatures of calls that already failed once this run. The set only
	// grows; a signature is never forgiven within a run.
	failedSigs := make(map[string]bool)

	var finalText string
	var iterations int
	for iterations < o.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++
		telemetry.IterationCounter.Add(ctx, 1)

		text, calls, err := o.streamTurn(ctx, provider, conv, tools, hooks)
		if err != nil {
			return nil, err
		}
		finalText = text

		if len(calls) == 0 {
			if text != "" {
				conv.Append(model.NewAssistantTurn(text))
			}
			return o.finish(ctx, span, conv, finalText, model.StopCompleted, iterations)
		}

		runnable := filterFailed(calls, failedSigs)
		if len(runnable) == 0 {
			log.Warnf("Every requested tool call already failed this run, breaking loop after %d iterations", iterations)
			return o.finish(ctx, span, conv, finalText, model.StopLoopBreak, iterations)
		}

		for _, call := range runnable {
			if hooks.OnToolCall != nil {
				hooks.OnToolCall(call)
			}
		}

		results, err := o.gateway.Execute(ctx, runnable)
		if err != nil {
			return nil, err
		}
		for i, result := range results {
			if hooks.OnToolResult != nil {
				hooks.OnToolResult(result)
			}
			if result.IsError() {
				failedSigs[runnable[i].Signature()] = true
			}
		}

		conv.Append(model.NewToolCallsTurn(text, runnable), model.NewToolResultsTurn(results))
	}

	log.Warnf("Iteration ceiling of %d reached, truncating run", o.maxIterations)
	return o.finish(ctx, span, conv, finalText, model.StopTruncated, iterations)
}

// streamTurn opens one session, normalizes its frames, and returns the
// streamed text plus the assembled tool calls.
func (o *Orchestrator) streamTurn(ctx context.Context, provider model.Provider, conv *model.Conversation,
	tools []*tool.Declaration, hooks Hooks) (string, []model.ToolCallRecord, error) {

	raw, err := wire.Marshal(conv.Turns, provider)
	if err != nil {
		return "", nil, fmt.Errorf("marshal conversation: %w", err)
	}

	sess, err := o.transport.OpenSession(ctx, transport.Payload{
		Provider:     provider,
		Model:        o.model,
		SystemPrompt: o.systemPrompt,
		Turns:        raw,
		Tools:        tools,
		MaxTokens:    o.maxTokens,
		Temperature:  o.temperature,
	})
	if err != nil {
		return "", nil, err
	}
	defer sess.Close()

	norm, err := stream.New(provider)
	if err != nil {
		return "", nil, err
	}
	asm := newAssembler()
	var textBuf strings.Builder

	process := func(events []stream.Event) (done bool, err error) {
		for _, ev := range events {
			switch ev.Type {
			case stream.EventTextDelta:
				textBuf.WriteString(ev.Text)
				if hooks.OnText != nil {
					hooks.OnText(ev.Text)
				}
			case stream.EventTurnDone:
				done = true
			case stream.EventError:
				return true, &model.VendorError{Code: ev.Code, Message: ev.Message}
			default:
				asm.observe(ev)
			}
		}
		return done, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		frame, err := sess.Recv()
		if errors.Is(err, io.EOF) {
			if _, ferr := process(norm.Finish()); ferr != nil {
				return "", nil, ferr
			}
			break
		}
		if err != nil {
			return "", nil, err
		}
		done, err := process(norm.Normalize(frame.Event, frame.Data))
		if err != nil {
			return "", nil, err
		}
		if done {
			break
		}
	}

	return textBuf.String(), asm.finish(), nil
}

// finish closes out a run: records the exchange, annotates the span, and
// builds the result.
func (o *Orchestrator) finish(ctx context.Context, span trace.Span, conv *model.Conversation,
	finalText string, reason model.StopReason, iterations int) (*Result, error) {

	span.SetAttributes(
		attribute.String(telemetry.KeyStopReason, string(reason)),
		attribute.Int(telemetry.KeyIterations, iterations),
	)

	if o.recorder != nil {
		exchange := session.Exchange{
			UserText:      conv.LastUserText(),
			AssistantText: finalText,
			Timestamp:     time.Now(),
		}
		if err := o.recorder.Append(ctx, o.sessionKey, exchange); err != nil {
			log.Errorf("Recording exchange failed: %v", err)
		}
	}

	return &Result{FinalText: finalText, StopReason: reason, Iterations: iterations}, nil
}

// begin registers this run as the active one, cancelling any predecessor.
// The returned cancel only clears the registration if no newer run has
// superseded this one.
func (o *Orchestrator) begin(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	run := &activeRun{cancel: cancel}

	o.mu.Lock()
	if o.active != nil {
		o.active.cancel()
	}
	o.active = run
	o.mu.Unlock()

	return ctx, func() {
		o.mu.Lock()
		if o.active == run {
			o.active = nil
		}
		o.mu.Unlock()
		cancel()
	}
}

// listTools fetches declarations once per run. A runtime that cannot list is
// logged and treated as offering no tools.
func (o *Orchestrator) listTools(ctx context.Context) []*tool.Declaration {
	if o.runtime == nil {
		return nil
	}
	tools, err := o.runtime.ListTools(ctx)
	if err != nil {
		log.Warnf("Listing tools failed, continuing without declarations: %v", err)
		return nil
	}
	return tools
}

// filterFailed drops calls whose signature already failed this run.
func filterFailed(calls []model.ToolCallRecord, failedSigs map[string]bool) []model.ToolCallRecord {
	runnable := make([]model.ToolCallRecord, 0, len(calls))
	for _, call := range calls {
		if failedSigs[call.Signature()] {
			log.Infof("Skipping tool call %s: identical call already failed this run", call.Name)
			continue
		}
		runnable = append(runnable, call)
	}
	return runnable
}
