package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-go-golems/glazed/pkg/helpers/maps"
	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// DefaultBaseURL is where a stock ollama install listens.
const DefaultBaseURL = "http://localhost:11434"

// Client implements completion.Client against a local or remote ollama
// server. No API key is involved, only a base URL.
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

	client, err := NewAPIClient(c.settings)
	if err != nil {
		return "", err
	}

	req, err := c.makeRequest(history)
	if err != nil {
		return "", err
	}

	log.Debug().Str("model", req.Model).Int("turns", len(history)).Msg("ollama completion started")

	var sb strings.Builder
	err = client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", classifyError(err)
	}

	reply := sb.String()
	if strings.TrimSpace(reply) == "" {
		return "", completion.NewEmptyResponseError("the model returned no text")
	}

	log.Debug().Str("model", req.Model).Int("reply_len", len(reply)).Msg("ollama completion finished")

	return reply, nil
}

// NewAPIClient returns a raw ollama API client for operations outside chat
// completion, such as listing the models the server has pulled.
func NewAPIClient(stepSettings *settings.StepSettings) (*api.Client, error) {
	if stepSettings == nil {
		return nil, errors.New("no settings provided")
	}

	baseURL := DefaultBaseURL
	if stepSettings.API != nil {
		if override := stepSettings.API.BaseUrls[string(settings.ApiTypeOllama)+"-base-url"]; override != "" {
			baseURL = override
		}
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %s", baseURL)
	}

	httpClient := http.DefaultClient
	if stepSettings.Client != nil && stepSettings.Client.HTTPClient != nil {
		httpClient = stepSettings.Client.HTTPClient
	}

	return api.NewClient(parsed, httpClient), nil
}

func (c *Client) makeRequest(history conversation.Conversation) (*api.ChatRequest, error) {
	chat := c.settings.Chat

	messages := make([]api.Message, 0, len(history)+1)
	if chat.SystemPrompt != nil && *chat.SystemPrompt != "" {
		messages = append(messages, api.Message{
			Role:    string(conversation.RoleSystem),
			Content: *chat.SystemPrompt,
		})
	}
	for _, msg := range history {
		messages = append(messages, api.Message{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}

	options, err := c.makeOptions()
	if err != nil {
		return nil, err
	}

	stream := false
	req := &api.ChatRequest{
		Model:    *chat.Engine,
		Messages: messages,
		Stream:   &stream,
	}
	if len(options) > 0 {
		req.Options = options
	}
	return req, nil
}

// makeOptions builds the server option map. Generic chat settings go in
// first, then the ollama-specific settings on top so they win on overlap.
func (c *Client) makeOptions() (map[string]interface{}, error) {
	chat := c.settings.Chat

	options := map[string]interface{}{}
	if chat.Temperature != nil {
		options["temperature"] = *chat.Temperature
	}
	if chat.TopP != nil {
		options["top_p"] = *chat.TopP
	}
	if chat.MaxResponseTokens != nil {
		options["num_predict"] = *chat.MaxResponseTokens
	}
	if len(chat.Stop) > 0 {
		options["stop"] = chat.Stop
	}

	if c.settings.Ollama != nil {
		ollamaOptions, err := maps.StructToMapThroughYAML(c.settings.Ollama)
		if err != nil {
			return nil, errors.Wrap(err, "could not convert ollama settings to options")
		}
		for k, v := range ollamaOptions {
			options[k] = v
		}
	}

	return options, nil
}

func classifyError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return completion.NewAuthError("the service rejected the credentials", err)
		default:
			return completion.NewRemoteError(fmt.Sprintf("the service returned status %d", statusErr.StatusCode), err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return completion.NewNetworkError("request did not complete", err)
	}
	return completion.NewNetworkError("could not reach the service", err)
}
