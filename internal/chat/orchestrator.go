// internal/chat/orchestrator.go
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kathir-ks/mcp-toolchat/internal/llmclient"
	"github.com/kathir-ks/mcp-toolchat/internal/models"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxToolCalls bounds the tool calls a single turn may chain.
const DefaultMaxToolCalls = 10

// State is the orchestrator's position in the conversation loop.
type State int

const (
	AwaitingUserInput State = iota
	AwaitingModelResponse
	HandlingToolCall
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingUserInput:
		return "awaiting_user_input"
	case AwaitingModelResponse:
		return "awaiting_model_response"
	case HandlingToolCall:
		return "handling_tool_call"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ToolClient is the orchestrator's view of the tool server.
type ToolClient interface {
	ListTools(ctx context.Context) ([]models.ToolDefinition, error)
	CallTool(ctx context.Context, req models.ToolInvocationRequest) (*models.ToolInvocationResult, error)
	// Lost is closed when the channel to the tool server is gone.
	Lost() <-chan struct{}
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Model llmclient.Client
	Tools ToolClient
	In    io.Reader // user input, one message per line
	Out   io.Writer // prompts and answers
}

// Options tune a session.
type Options struct {
	ModelName    string
	SystemPrompt string
	MaxToolCalls int // <= 0 means DefaultMaxToolCalls
}

// Orchestrator owns one conversation session.
type Orchestrator struct {
	model llmclient.Client
	tools ToolClient
	in    io.Reader
	out   io.Writer
	opts  Options

	sessionID string
	logger    *log.Entry
	history   *History

	mu           sync.Mutex
	state        State
	discovered   bool
	declarations []llmclient.FunctionDeclaration
	toolNames    map[string]struct{}
}

// NewOrchestrator creates a session. Discover must succeed before the first turn.
func NewOrchestrator(deps Deps, opts Options) (*Orchestrator, error) {
	if deps.Model == nil {
		return nil, errors.New("orchestrator requires a model client")
	}
	if deps.Tools == nil {
		return nil, errors.New("orchestrator requires a tool client")
	}
	if deps.In == nil || deps.Out == nil {
		return nil, errors.New("orchestrator requires input and output streams")
	}
	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = DefaultMaxToolCalls
	}

	id := uuid.NewString()
	return &Orchestrator{
		model:     deps.Model,
		tools:     deps.Tools,
		in:        deps.In,
		out:       deps.Out,
		opts:      opts,
		sessionID: id,
		logger:    log.WithField("session", id),
		history:   NewHistory(),
		state:     AwaitingUserInput,
	}, nil
}

// SessionID identifies this session in logs.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// History returns the session's conversation record.
func (o *Orchestrator) History() *History { return o.history }

// State returns the current loop state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()
	if prev != s {
		o.logger.WithFields(log.Fields{"from": prev, "to": s}).Trace("State transition")
	}
}

// Discover lists the server's tools once and caches their names and the
// declarations sent with every model query.
func (o *Orchestrator) Discover(ctx context.Context) error {
	defs, err := o.tools.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("discover tools: %w", err)
	}

	names := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		names[def.Name] = struct{}{}
	}
	decls := llmclient.ToFunctionDeclarations(defs)

	o.mu.Lock()
	o.toolNames = names
	o.declarations = decls
	o.discovered = true
	o.mu.Unlock()

	o.logger.WithField("tools", len(defs)).Info("Discovered tools")
	return nil
}

// Run drives the prompt loop until the user exits, input ends, ctx is
// cancelled, or the tool channel is lost. Only the last two are errors.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.setState(Terminated)

	o.mu.Lock()
	discovered := o.discovered
	o.mu.Unlock()
	if !discovered {
		if err := o.Discover(ctx); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	defer close(done)
	lines := o.readLines(done)

	for {
		select {
		case <-o.tools.Lost():
			o.logger.Error("Tool server channel lost, ending session")
			return ErrChannelLost
		default:
		}

		o.setState(AwaitingUserInput)
		fmt.Fprint(o.out, "You: ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.tools.Lost():
			fmt.Fprintln(o.out)
			o.logger.Error("Tool server channel lost, ending session")
			return ErrChannelLost
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(o.out)
			fmt.Fprintln(o.out, "Goodbye!")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if isExitCommand(input) {
			fmt.Fprintln(o.out, "Goodbye!")
			return nil
		}

		if err := o.HandleTurn(ctx, input); err != nil {
			if errors.Is(err, ErrChannelLost) {
				o.logger.WithError(err).Error("Tool server channel lost, ending session")
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			o.logger.WithFields(log.Fields{"kind": Kind(err)}).Errorf("Turn failed: %v", err)
		}
	}
}

func (o *Orchestrator) readLines(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(o.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}

// HandleTurn runs one user message through the model and any tool calls it
// requests, ending with the model's text answer printed and recorded. A
// failed turn leaves everything appended so far in the history.
func (o *Orchestrator) HandleTurn(ctx context.Context, input string) error {
	o.history.Append(models.NewTextMessage(models.RoleUser, input))
	logger := o.logger.WithField("turn", o.history.Len())

	state := AwaitingModelResponse
	var call *models.FunctionCall
	toolCalls := 0

	for {
		o.setState(state)
		switch state {
		case AwaitingModelResponse:
			resp, err := o.queryModel(ctx)
			if err != nil {
				return &TurnError{Kind: FaultModel, Err: err}
			}
			if resp.FunctionCall != nil {
				call = resp.FunctionCall
				state = HandlingToolCall
				continue
			}
			if resp.Text == "" {
				return &TurnError{Kind: FaultModel, Err: fmt.Errorf("%w: empty answer (finish %s)", llmclient.ErrMalformedResponse, resp.FinishReason)}
			}
			fmt.Fprintf(o.out, "AI: %s\n", resp.Text)
			o.history.Append(models.NewTextMessage(models.RoleAssistant, resp.Text))
			logger.WithField("tool_calls", toolCalls).Debug("Turn complete")
			o.setState(AwaitingUserInput)
			return nil

		case HandlingToolCall:
			if toolCalls >= o.opts.MaxToolCalls {
				return &TurnError{Kind: FaultChainLimit, Err: fmt.Errorf("%w (%d)", ErrToolChainLimit, o.opts.MaxToolCalls)}
			}
			toolCalls++

			result, err := o.invokeTool(ctx, call)
			if err != nil {
				if errors.Is(err, ErrChannelLost) {
					return err
				}
				return &TurnError{Kind: FaultTool, Err: err}
			}
			logger.WithFields(log.Fields{"tool": call.Name, "is_error": result.IsError}).Info("Tool call finished")
			o.history.Append(models.NewTextMessage(models.RoleAssistant, result.Text()))
			state = AwaitingModelResponse
		}
	}
}

func (o *Orchestrator) queryModel(ctx context.Context) (*llmclient.GenerationResponse, error) {
	o.mu.Lock()
	decls := o.declarations
	o.mu.Unlock()

	params := llmclient.GenerationParams{
		Model:    o.opts.ModelName,
		Messages: o.history.Snapshot(),
		Tools:    decls,
	}
	if o.opts.SystemPrompt != "" {
		prompt := o.opts.SystemPrompt
		params.SystemPrompt = &prompt
	}

	resp, err := o.model.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", o.model.ProviderName(), err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%s generate: empty response", o.model.ProviderName())
	}
	return resp, nil
}

// invokeTool dispatches a model function call. Names outside the discovered
// set become error content without reaching the tool server.
func (o *Orchestrator) invokeTool(ctx context.Context, call *models.FunctionCall) (models.ToolInvocationResult, error) {
	o.mu.Lock()
	_, known := o.toolNames[call.Name]
	o.mu.Unlock()
	if !known {
		o.logger.WithField("tool", call.Name).Warn("Model requested an unknown tool")
		return models.ErrorResult("Unknown tool: " + call.Name), nil
	}

	res, err := o.tools.CallTool(ctx, models.ToolInvocationRequest{ToolName: call.Name, Arguments: call.Args})
	if err != nil {
		return models.ToolInvocationResult{}, fmt.Errorf("call %s: %w", call.Name, err)
	}
	if res == nil {
		return models.ToolInvocationResult{}, fmt.Errorf("call %s: empty result", call.Name)
	}
	return *res, nil
}
