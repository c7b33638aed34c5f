package completion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/logging"
)

// Options configure the completion client.
type Options struct {
	// Model is the model identifier sent with each request. The backend
	// routes to the user's configured model, so this is advisory.
	Model string
	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Client is a thin wrapper over the OpenAI SDK pointed at the local
// backend's /v1 surface.
type Client struct {
	oai    openai.Client
	model  string
	logger logging.Logger
}

// New creates a completion client for the given backend base URL. The game
// key is sent on every request; no API key is involved.
func New(baseURL, gameKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:  openai.ChatModelGPT4oMini,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(baseURL + "/v1"),
		option.WithAPIKey("unused"),
		option.WithHeader(client.GameKeyHeader, gameKey),
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &Client{
		oai:    openai.NewClient(reqOpts...),
		model:  opts.Model,
		logger: opts.Logger,
	}
}

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// System returns a system-role message.
func System(text string) Message { return Message{Role: "system", Content: text} }

// User returns a user-role message.
func User(text string) Message { return Message{Role: "user", Content: text} }

// Assistant returns an assistant-role message.
func Assistant(text string) Message { return Message{Role: "assistant", Content: text} }

// Request is a chat completion request.
type Request struct {
	Messages    []Message
	Tools       []client.FunctionDef
	Temperature *float64
	MaxTokens   *int64
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Response is the first choice of a chat completion.
type Response struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Complete performs a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(req.Messages),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(*req.MaxTokens)
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	completion, err := c.oai.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: response has no choices")
	}

	choice := completion.Choices[0]
	resp := &Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	c.logger.Debug("chat completion finished", "finish_reason", resp.FinishReason, "tool_calls", len(resp.ToolCalls))
	return resp, nil
}

func buildMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func buildTools(defs []client.FunctionDef) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, len(defs))
	for i, def := range defs {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Parameters),
			},
		}
	}
	return tools
}
