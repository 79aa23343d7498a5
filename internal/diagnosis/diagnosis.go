package diagnosis

import (
	"context"
	"errors"
	"strings"
	"time"

	"applianceassist/config"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"

	"github.com/tidwall/gjson"
)

var (
	ErrEmptyResponse = errors.New("diagnosis provider returned an empty response")
	ErrMissingCauses = errors.New("diagnosis reply has no possibleCauses list")
)

type Diagnoser interface {
	Diagnose(ctx context.Context, query DiagnosisQuery) (Diagnosis, error)
}

// completer sends a rendered prompt to a model and returns its raw text reply.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Service struct {
	provider completer
	timeout  time.Duration
	log      logger.Logger
}

func newService(provider completer, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		timeout:  timeout,
		log:      logger.New("diagnosis"),
	}
}

// New builds the Diagnoser selected by DIAGNOSIS_PROVIDER.
func New(ctx context.Context, config config.Config) (*Service, error) {
	log := logger.New("diagnosis").Function("New")
	timeout := time.Duration(config.DiagnosisTimeoutSeconds) * time.Second

	var (
		provider completer
		err      error
	)
	switch config.DiagnosisProvider {
	case "gemini":
		provider, err = newGeminiProvider(ctx, config.GeminiAPIKey, config.GeminiModel)
	case "openai":
		provider, err = newOpenAIProvider(config.OpenAIAPIKey, config.OpenAIBaseURL, config.OpenAIModel)
	default:
		return nil, log.Error("unknown diagnosis provider", "provider", config.DiagnosisProvider)
	}
	if err != nil {
		return nil, log.Err("failed to create diagnosis provider", err, "provider", config.DiagnosisProvider)
	}

	log.Info("diagnosis provider ready", "provider", provider.Name(), "timeout", timeout)
	return newService(provider, timeout), nil
}

func (s *Service) Diagnose(ctx context.Context, query DiagnosisQuery) (Diagnosis, error) {
	log := s.log.Function("Diagnose")

	prompt, err := renderPrompt(query)
	if err != nil {
		return Diagnosis{}, log.Err("failed to render prompt", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return Diagnosis{}, log.Err("diagnosis provider failed", err, "provider", s.provider.Name())
	}

	diagnosis, err := parseDiagnosis(reply)
	if err != nil {
		return Diagnosis{}, log.Err("failed to parse diagnosis", err, "provider", s.provider.Name())
	}

	log.Debug("diagnosis complete", "causes", len(diagnosis.PossibleCauses), "confidence", diagnosis.ConfidenceLevel)
	return diagnosis, nil
}

// parseDiagnosis reads the JSON object out of a model reply. Models sometimes
// wrap it in a markdown fence or prose, so the outermost braces are used.
func parseDiagnosis(reply string) (Diagnosis, error) {
	body := extractJSON(reply)
	if body == "" || !gjson.Valid(body) {
		return Diagnosis{}, ErrEmptyResponse
	}

	result := gjson.Parse(body)

	list := result.Get("possibleCauses")
	if !list.IsArray() {
		return Diagnosis{}, ErrMissingCauses
	}

	causes := []string{}
	list.ForEach(func(_, value gjson.Result) bool {
		if cause := strings.TrimSpace(value.String()); cause != "" {
			causes = append(causes, cause)
		}
		return true
	})

	return Diagnosis{
		PossibleCauses:  causes,
		ConfidenceLevel: strings.ToLower(strings.TrimSpace(result.Get("confidenceLevel").String())),
	}, nil
}

func extractJSON(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return ""
	}
	return reply[start : end+1]
}

type unavailable struct {
	err error
}

// Unavailable returns a Diagnoser that fails every call with err. Used when no
// provider could be configured so the rest of the service still starts.
func Unavailable(err error) Diagnoser {
	return unavailable{err: err}
}

func (u unavailable) Diagnose(ctx context.Context, query DiagnosisQuery) (Diagnosis, error) {
	return Diagnosis{}, u.err
}
