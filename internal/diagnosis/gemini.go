package diagnosis

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

var diagnosisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"possibleCauses": {
			Type:        genai.TypeArray,
			Description: "Potential causes for the appliance malfunction.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"confidenceLevel": {
			Type: genai.TypeString,
			Enum: []string{"high", "medium", "low"},
		},
	},
	Required: []string{"possibleCauses", "confidenceLevel"},
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGeminiProvider(ctx context.Context, apiKey, model string) (*geminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   diagnosisSchema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (p *geminiProvider) Name() string {
	return "gemini:" + p.model
}
