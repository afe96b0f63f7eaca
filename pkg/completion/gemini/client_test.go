package gemini

import (
	"context"
	"math"
	"testing"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/settings"
)

func testSettings() *settings.StepSettings {
	s := settings.NewStepSettings()
	engine := "gemini-pro"
	s.Chat.Engine = &engine
	s.API.APIKeys["gemini-api-key"] = "test-key"
	return s
}

func TestNewClientRequiresSettings(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	s := settings.NewStepSettings()
	_, err = NewClient(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no engine specified")

	client, err := NewClient(testSettings())
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestCompleteRejectsEmptyHistory(t *testing.T) {
	client, err := NewClient(testSettings())
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), nil)
	require.ErrorIs(t, err, completion.ErrEmptyHistory)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	s := testSettings()
	delete(s.API.APIKeys, "gemini-api-key")
	client, err := NewClient(s)
	require.NoError(t, err)

	history := conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "hello"),
	}
	_, err = client.Complete(context.Background(), history)
	require.Error(t, err)
	assert.True(t, completion.IsAuthError(err))
}

func TestGenaiRole(t *testing.T) {
	assert.Equal(t, "user", genaiRole(conversation.RoleUser))
	assert.Equal(t, "model", genaiRole(conversation.RoleAssistant))
	assert.Equal(t, "user", genaiRole(conversation.RoleSystem))
}

func TestHistoryToContents(t *testing.T) {
	history := conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "first"),
		conversation.NewMessage(conversation.RoleAssistant, "second"),
	}
	contents := historyToContents(history)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, genai.Text("first"), contents[0].Parts[0])
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, genai.Text("second"), contents[1].Parts[0])
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text("one "), genai.Text("two")},
				},
			},
		},
	}
	assert.Equal(t, "one two", responseText(resp))
}

func TestConfigureModelAppliesChatSettings(t *testing.T) {
	s := testSettings()
	temperature := 0.4
	topP := 0.9
	maxTokens := 256
	candidates := 2
	systemPrompt := "be brief"
	s.Chat.Temperature = &temperature
	s.Chat.TopP = &topP
	s.Chat.MaxResponseTokens = &maxTokens
	s.Chat.Stop = []string{"STOP"}
	s.Chat.SystemPrompt = &systemPrompt
	s.Gemini.CandidateCount = &candidates

	client, err := NewClient(s)
	require.NoError(t, err)

	model := &genai.GenerativeModel{}
	client.configureModel(model)

	require.NotNil(t, model.Temperature)
	assert.InDelta(t, 0.4, float64(*model.Temperature), 0.001)
	require.NotNil(t, model.TopP)
	assert.InDelta(t, 0.9, float64(*model.TopP), 0.001)
	require.NotNil(t, model.MaxOutputTokens)
	assert.Equal(t, int32(256), *model.MaxOutputTokens)
	assert.Equal(t, []string{"STOP"}, model.StopSequences)
	require.NotNil(t, model.CandidateCount)
	assert.Equal(t, int32(2), *model.CandidateCount)
	require.NotNil(t, model.SystemInstruction)
	assert.Equal(t, genai.Text("be brief"), model.SystemInstruction.Parts[0])
}

func TestConfigureModelSafetyThreshold(t *testing.T) {
	s := testSettings()
	threshold := "most"
	s.Gemini.SafetyThreshold = &threshold

	client, err := NewClient(s)
	require.NoError(t, err)

	model := &genai.GenerativeModel{}
	client.configureModel(model)

	require.Len(t, model.SafetySettings, 4)
	for _, setting := range model.SafetySettings {
		assert.Equal(t, genai.HarmBlockLowAndAbove, setting.Threshold)
	}
}

func TestSafetyThreshold(t *testing.T) {
	cases := []struct {
		name string
		want genai.HarmBlockThreshold
		ok   bool
	}{
		{"none", genai.HarmBlockNone, true},
		{"few", genai.HarmBlockOnlyHigh, true},
		{"some", genai.HarmBlockMediumAndAbove, true},
		{"most", genai.HarmBlockLowAndAbove, true},
		{"MOST", genai.HarmBlockLowAndAbove, true},
		{"everything", genai.HarmBlockUnspecified, false},
	}
	for _, tc := range cases {
		got, ok := safetyThreshold(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestClampToInt32(t *testing.T) {
	assert.Equal(t, int32(0), *clampToInt32(-5))
	assert.Equal(t, int32(100), *clampToInt32(100))
	assert.Equal(t, int32(math.MaxInt32), *clampToInt32(math.MaxInt))
}

func TestClassifyError(t *testing.T) {
	err := classifyError(&googleapi.Error{Code: 401})
	assert.True(t, completion.IsAuthError(err))

	err = classifyError(&googleapi.Error{Code: 403})
	assert.True(t, completion.IsAuthError(err))

	err = classifyError(&googleapi.Error{Code: 500})
	assert.True(t, completion.IsRemoteError(err))
	assert.Contains(t, err.Error(), "500")

	err = classifyError(context.DeadlineExceeded)
	assert.True(t, completion.IsNetworkError(err))

	err = classifyError(errors.New("connection refused"))
	assert.True(t, completion.IsNetworkError(err))
}
