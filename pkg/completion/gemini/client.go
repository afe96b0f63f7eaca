package gemini

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// Client implements completion.Client against Google's generative language
// API. A fresh SDK client is built per request so that settings changes take
// effect without rebuilding the Client.
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

	apiKey := ""
	baseURL := ""
	if c.settings.API != nil {
		apiKey = c.settings.API.APIKeys[string(settings.ApiTypeGemini)+"-api-key"]
		baseURL = c.settings.API.BaseUrls[string(settings.ApiTypeGemini)+"-base-url"]
	}
	if apiKey == "" {
		return "", completion.NewAuthError("missing API key gemini-api-key", nil)
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", classifyError(err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close gemini client")
		}
	}()

	modelName := *c.settings.Chat.Engine
	model := client.GenerativeModel(modelName)
	c.configureModel(model)

	cs := model.StartChat()
	cs.History = historyToContents(history[:len(history)-1])

	log.Debug().Str("model", modelName).Int("turns", len(history)).Msg("gemini completion started")

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Text))
	if err != nil {
		return "", classifyError(err)
	}

	reply := responseText(resp)
	if strings.TrimSpace(reply) == "" {
		return "", completion.NewEmptyResponseError("the model returned no text")
	}

	log.Debug().Str("model", modelName).Int("reply_len", len(reply)).Msg("gemini completion finished")

	return reply, nil
}

func (c *Client) configureModel(model *genai.GenerativeModel) {
	chat := c.settings.Chat

	cfg := genai.GenerationConfig{}
	hasConfig := false
	if chat.Temperature != nil {
		v := float32(*chat.Temperature)
		cfg.Temperature = &v
		hasConfig = true
	}
	if chat.TopP != nil {
		v := float32(*chat.TopP)
		cfg.TopP = &v
		hasConfig = true
	}
	if chat.MaxResponseTokens != nil {
		cfg.MaxOutputTokens = clampToInt32(*chat.MaxResponseTokens)
		hasConfig = true
	}
	if len(chat.Stop) > 0 {
		cfg.StopSequences = chat.Stop
		hasConfig = true
	}
	if c.settings.Gemini != nil && c.settings.Gemini.CandidateCount != nil {
		cfg.CandidateCount = clampToInt32(*c.settings.Gemini.CandidateCount)
		hasConfig = true
	}
	if hasConfig {
		model.GenerationConfig = cfg
	}

	if chat.SystemPrompt != nil && *chat.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(*chat.SystemPrompt)},
		}
	}

	if c.settings.Gemini != nil && c.settings.Gemini.SafetyThreshold != nil {
		threshold, ok := safetyThreshold(*c.settings.Gemini.SafetyThreshold)
		if !ok {
			log.Warn().Str("threshold", *c.settings.Gemini.SafetyThreshold).Msg("unknown safety threshold, using API defaults")
			return
		}
		model.SafetySettings = safetySettings(threshold)
	}
}

func clampToInt32(v int) *int32 {
	var ret int32
	switch {
	case v < 0:
		ret = 0
	case v > math.MaxInt32:
		ret = math.MaxInt32
	default:
		ret = int32(v)
	}
	return &ret
}

// safetyThreshold maps the settings threshold name to the SDK constant. The
// name states how much gets blocked, not how much gets through.
func safetyThreshold(name string) (genai.HarmBlockThreshold, bool) {
	switch strings.ToLower(name) {
	case "none":
		return genai.HarmBlockNone, true
	case "few":
		return genai.HarmBlockOnlyHigh, true
	case "some":
		return genai.HarmBlockMediumAndAbove, true
	case "most":
		return genai.HarmBlockLowAndAbove, true
	default:
		return genai.HarmBlockUnspecified, false
	}
}

func safetySettings(threshold genai.HarmBlockThreshold) []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	ret := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		ret = append(ret, &genai.SafetySetting{Category: category, Threshold: threshold})
	}
	return ret
}

func historyToContents(history conversation.Conversation) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Text)},
			Role:  genaiRole(msg.Role),
		})
	}
	return contents
}

func genaiRole(role conversation.Role) string {
	if role == conversation.RoleAssistant {
		return "model"
	}
	return "user"
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func classifyError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return completion.NewAuthError("the service rejected the credentials", err)
		default:
			return completion.NewRemoteError(fmt.Sprintf("the service returned status %d", gerr.Code), err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return completion.NewNetworkError("request did not complete", err)
	}
	return completion.NewNetworkError("could not reach the service", err)
}
