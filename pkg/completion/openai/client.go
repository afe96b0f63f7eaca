package openai

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// Client implements completion.Client against the OpenAI chat completions
// API, or any server speaking the same protocol when openai-base-url points
// elsewhere.
type Client struct {
	settings *settings.StepSettings
}

func NewClient(stepSettings *settings.StepSettings) (*Client, error) {
	if stepSettings == nil {
		return nil, errors.New("no settings provided")
	}
	if stepSettings.Chat == nil || stepSettings.Chat.Engine == nil {
		return nil, errors.New("no engine specified")
	}
	return &Client{settings: stepSettings}, nil
}

var _ completion.Client = (*Client)(nil)

func (c *Client) Complete(ctx context.Context, history conversation.Conversation) (string, error) {
	if len(history) == 0 {
		return "", completion.ErrEmptyHistory
	}

	if c.settings.Client != nil && c.settings.Client.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *c.settings.Client.Timeout)
		defer cancel()
	}

	client, err := c.makeClient()
	if err != nil {
		return "", err
	}

	req := c.makeRequest(history)

	log.Debug().Str("model", req.Model).Int("turns", len(history)).Msg("openai completion started")

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", completion.NewEmptyResponseError("the service returned no choices")
	}
	reply := resp.Choices[0].Message.Content
	if strings.TrimSpace(reply) == "" {
		return "", completion.NewEmptyResponseError("the model returned no text")
	}

	log.Debug().Str("model", req.Model).Int("reply_len", len(reply)).Msg("openai completion finished")

	return reply, nil
}

func (c *Client) makeClient() (*go_openai.Client, error) {
	return NewAPIClient(c.settings)
}

// NewAPIClient returns a configured go-openai client for operations outside
// chat completion, such as listing models.
func NewAPIClient(stepSettings *settings.StepSettings) (*go_openai.Client, error) {
	if stepSettings == nil {
		return nil, errors.New("no settings provided")
	}

	apiKey := ""
	baseURL := ""
	if stepSettings.API != nil {
		apiKey = stepSettings.API.APIKeys[string(settings.ApiTypeOpenAI)+"-api-key"]
		baseURL = stepSettings.API.BaseUrls[string(settings.ApiTypeOpenAI)+"-base-url"]
	}
	if apiKey == "" {
		return nil, completion.NewAuthError("missing API key openai-api-key", nil)
	}

	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if stepSettings.Client != nil {
		if stepSettings.Client.Organization != nil {
			config.OrgID = *stepSettings.Client.Organization
		}
		if stepSettings.Client.HTTPClient != nil {
			config.HTTPClient = stepSettings.Client.HTTPClient
		}
	}

	return go_openai.NewClientWithConfig(config), nil
}

func (c *Client) makeRequest(history conversation.Conversation) go_openai.ChatCompletionRequest {
	chat := c.settings.Chat

	messages := make([]go_openai.ChatCompletionMessage, 0, len(history)+1)
	if chat.SystemPrompt != nil && *chat.SystemPrompt != "" {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: *chat.SystemPrompt,
		})
	}
	for _, msg := range history {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    openaiRole(msg.Role),
			Content: msg.Text,
		})
	}

	req := go_openai.ChatCompletionRequest{
		Model:    *chat.Engine,
		Messages: messages,
	}
	if chat.Temperature != nil {
		req.Temperature = float32(*chat.Temperature)
	}
	if chat.TopP != nil {
		req.TopP = float32(*chat.TopP)
	}
	if chat.MaxResponseTokens != nil {
		req.MaxTokens = *chat.MaxResponseTokens
	}
	if len(chat.Stop) > 0 {
		req.Stop = chat.Stop
	}

	if c.settings.OpenAI != nil {
		openaiSettings := c.settings.OpenAI
		if openaiSettings.N != nil {
			req.N = *openaiSettings.N
		}
		if openaiSettings.PresencePenalty != nil {
			req.PresencePenalty = float32(*openaiSettings.PresencePenalty)
		}
		if openaiSettings.FrequencyPenalty != nil {
			req.FrequencyPenalty = float32(*openaiSettings.FrequencyPenalty)
		}
		if len(openaiSettings.LogitBias) > 0 {
			req.LogitBias = logitBias(openaiSettings.LogitBias)
		}
	}

	return req
}

func openaiRole(role conversation.Role) string {
	switch role {
	case conversation.RoleSystem:
		return go_openai.ChatMessageRoleSystem
	case conversation.RoleAssistant:
		return go_openai.ChatMessageRoleAssistant
	default:
		return go_openai.ChatMessageRoleUser
	}
}

// logitBias converts the string-valued settings map into the integer map the
// API expects. Entries that do not parse are skipped with a warning instead
// of failing the whole request.
func logitBias(bias map[string]string) map[string]int {
	ret := make(map[string]int, len(bias))
	for token, value := range bias {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Str("token", token).Str("value", value).Msg("skipping unparseable logit bias")
			continue
		}
		ret[token] = parsed
	}
	return ret
}

func classifyError(err error) error {
	var apiErr *go_openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return completion.NewAuthError("the service rejected the credentials", err)
		default:
			return completion.NewRemoteError(fmt.Sprintf("the service returned status %d", apiErr.HTTPStatusCode), err)
		}
	}
	var reqErr *go_openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return completion.NewAuthError("the service rejected the credentials", err)
		default:
			return completion.NewRemoteError(fmt.Sprintf("the service returned status %d", reqErr.HTTPStatusCode), err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return completion.NewNetworkError("request did not complete", err)
	}
	return completion.NewNetworkError("could not reach the service", err)
}
