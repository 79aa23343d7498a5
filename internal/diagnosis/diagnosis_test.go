package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"applianceassist/config"
	. "applianceassist/internal/models"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply  string
	err    error
	prompt string
	block  bool
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

var fridgeQuery = DiagnosisQuery{
	ApplianceType:    ApplianceFridge,
	IssueDescription: "Fridge is not cooling at all",
}

func TestService_Diagnose(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		err        error
		wantErr    error
		causes     []string
		confidence string
	}{
		{
			name:       "plain json",
			reply:      `{"possibleCauses":["Faulty compressor","Blocked vents"],"confidenceLevel":"medium"}`,
			causes:     []string{"Faulty compressor", "Blocked vents"},
			confidence: "medium",
		},
		{
			name:       "fenced json with prose",
			reply:      "Here you go:\n```json\n{\"possibleCauses\":[\"Dirty coils\"],\"confidenceLevel\":\"High\"}\n```",
			causes:     []string{"Dirty coils"},
			confidence: "high",
		},
		{
			name:       "empty causes list",
			reply:      `{"possibleCauses":[],"confidenceLevel":"low"}`,
			causes:     []string{},
			confidence: "low",
		},
		{
			name:       "blank causes only",
			reply:      `{"possibleCauses":["  "],"confidenceLevel":"low"}`,
			causes:     []string{},
			confidence: "low",
		},
		{
			name:    "missing causes",
			reply:   `{"confidenceLevel":"low"}`,
			wantErr: ErrMissingCauses,
		},
		{
			name:    "causes not a list",
			reply:   `{"possibleCauses":"compressor","confidenceLevel":"low"}`,
			wantErr: ErrMissingCauses,
		},
		{
			name:    "not json",
			reply:   "I cannot help with that.",
			wantErr: ErrEmptyResponse,
		},
		{
			name: "provider error",
			err:  errors.New("quota exceeded"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{reply: tt.reply, err: tt.err}
			service := newService(provider, time.Second)

			diagnosis, err := service.Diagnose(context.Background(), fridgeQuery)

			if tt.err != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
				return
			}
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.causes, diagnosis.PossibleCauses)
			assert.Equal(t, tt.confidence, diagnosis.ConfidenceLevel)
		})
	}
}

func TestService_PromptCarriesQuery(t *testing.T) {
	provider := &fakeProvider{reply: `{"possibleCauses":["x"],"confidenceLevel":"low"}`}
	_, err := newService(provider, 0).Diagnose(context.Background(), fridgeQuery)
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "Appliance Type: fridge")
	assert.Contains(t, provider.prompt, "Issue Description: Fridge is not cooling at all")
	assert.Contains(t, provider.prompt, "high, medium, low")
}

func TestService_Timeout(t *testing.T) {
	provider := &fakeProvider{block: true}
	service := newService(provider, 20*time.Millisecond)

	_, err := service.Diagnose(context.Background(), fridgeQuery)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "gemini", provider: "gemini"},
		{name: "openai", provider: "openai"},
		{name: "unknown", provider: "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), config.Config{DiagnosisProvider: tt.provider})
			assert.Error(t, err)
		})
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		gotModel, _ = payload["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {
					"role": "assistant",
					"content": "{\"possibleCauses\":[\"Worn door seal\"],\"confidenceLevel\":\"low\"}"
				}
			}]
		}`))
	}))
	defer server.Close()

	provider, err := newOpenAIProvider("test-key", server.URL+"/", "", option.WithMaxRetries(0))
	require.NoError(t, err)

	diagnosis, err := newService(provider, time.Second).Diagnose(context.Background(), fridgeQuery)
	require.NoError(t, err)

	assert.Equal(t, defaultOpenAIModel, gotModel)
	assert.Equal(t, []string{"Worn door seal"}, diagnosis.PossibleCauses)
	assert.Equal(t, "low", diagnosis.ConfidenceLevel)
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := newOpenAIProvider("test-key", server.URL+"/", "", option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = newService(provider, time.Second).Diagnose(context.Background(), fridgeQuery)
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("GEMINI_API_KEY is required")
	_, err := Unavailable(cause).Diagnose(context.Background(), fridgeQuery)
	assert.ErrorIs(t, err, cause)
}
