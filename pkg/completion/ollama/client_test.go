package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/settings"
)

func testSettings() *settings.StepSettings {
	s := settings.NewStepSettings()
	engine := "llama2"
	s.Chat.Engine = &engine
	return s
}

func testHistory() conversation.Conversation {
	return conversation.Conversation{
		conversation.NewMessage(conversation.RoleUser, "hello"),
	}
}

func TestNewClientRequiresSettings(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	_, err = NewClient(settings.NewStepSettings())
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

func TestCompleteRoundTrip(t *testing.T) {
	var gotRequest struct {
		Model    string                 `json:"model"`
		Messages []api.Message          `json:"messages"`
		Stream   *bool                  `json:"stream"`
		Options  map[string]interface{} `json:"options"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"model": "llama2", "created_at": "2023-12-01T00:00:00Z", "message": {"role": "assistant", "content": "local hi"}, "done": true}` + "\n"))
	}))
	defer server.Close()

	s := testSettings()
	s.API.BaseUrls["ollama-base-url"] = server.URL
	systemPrompt := "be terse"
	temperature := 0.2
	numCtx := 4096
	s.Chat.SystemPrompt = &systemPrompt
	s.Chat.Temperature = &temperature
	s.Ollama.NumCtx = &numCtx

	client, err := NewClient(s)
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), testHistory())
	require.NoError(t, err)
	assert.Equal(t, "local hi", reply)

	assert.Equal(t, "llama2", gotRequest.Model)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "be terse", gotRequest.Messages[0].Content)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
	assert.Equal(t, "hello", gotRequest.Messages[1].Content)
	require.NotNil(t, gotRequest.Stream)
	assert.False(t, *gotRequest.Stream)
	assert.InDelta(t, 0.2, gotRequest.Options["temperature"], 0.001)
	assert.InDelta(t, 4096, gotRequest.Options["num_ctx"], 0.001)
}

func TestCompleteMapsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}\n"))
	}))
	defer server.Close()

	s := testSettings()
	s.API.BaseUrls["ollama-base-url"] = server.URL

	client, err := NewClient(s)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), testHistory())
	require.Error(t, err)
	assert.True(t, completion.IsRemoteError(err))
	assert.Contains(t, err.Error(), "404")
}

func TestCompleteRejectsBlankReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model": "llama2", "created_at": "2023-12-01T00:00:00Z", "message": {"role": "assistant", "content": "  "}, "done": true}` + "\n"))
	}))
	defer server.Close()

	s := testSettings()
	s.API.BaseUrls["ollama-base-url"] = server.URL

	client, err := NewClient(s)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), testHistory())
	require.Error(t, err)
	assert.True(t, completion.IsEmptyResponseError(err))
}

func TestMakeOptionsOverlaysOllamaSettings(t *testing.T) {
	s := testSettings()
	chatTemperature := 0.9
	ollamaTemperature := 0.1
	seed := 42
	s.Chat.Temperature = &chatTemperature
	s.Ollama.Temperature = &ollamaTemperature
	s.Ollama.Seed = &seed

	client, err := NewClient(s)
	require.NoError(t, err)

	options, err := client.makeOptions()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, options["temperature"].(float64), 0.001)
	assert.Equal(t, 42, options["seed"])
}

func TestClassifyError(t *testing.T) {
	err := classifyError(api.StatusError{StatusCode: 401})
	assert.True(t, completion.IsAuthError(err))

	err = classifyError(api.StatusError{StatusCode: 500})
	assert.True(t, completion.IsRemoteError(err))
	assert.Contains(t, err.Error(), "500")

	err = classifyError(context.DeadlineExceeded)
	assert.True(t, completion.IsNetworkError(err))

	err = classifyError(errors.New("dial tcp: connection refused"))
	assert.True(t, completion.IsNetworkError(err))
}
