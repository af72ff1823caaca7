package insight

import (
	"time"

	"github.com/itsneelabh/gomind/ai"
	"github.com/itsneelabh/gomind/ai/providers/gemini"
	"github.com/itsneelabh/gomind/core"
	"github.com/pkg/errors"
)

// ErrNoCredential means no API key was configured; callers run without a client.
var ErrNoCredential = errors.New("gemini api key not configured")

// NewGeminiClient builds the text-generation client. The key is required
// explicitly so an ambient GEMINI_API_KEY never switches the feature on behind
// the config's back.
func NewGeminiClient(apiKey, model string, timeout time.Duration) (core.AIClient, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	client, err := ai.NewClient(
		ai.WithProvider(string(ai.ProviderGemini)),
		ai.WithAPIKey(apiKey),
		ai.WithModel(model),
		ai.WithTimeout(timeout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	// One attempt per request; a failed insight just shows its fallback.
	if gc, ok := client.(*gemini.Client); ok {
		gc.MaxRetries = 0
	}
	return client, nil
}
