package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/calldesk/internal/entity"
)

// Placeholders returned instead of an error. Script generation is
// best-effort and never blocks a lifecycle transition.
const (
	ScriptMissingKey = "Error: API Key is missing. Please check your configuration."
	ScriptEmpty      = "Could not generate script."
	ScriptFailed     = "Error generating script. Please try again."
)

const defaultScriptTimeout = 30 * time.Second

type CallScriptUseCase struct {
	Generator ScriptGenerator
	Timeout   time.Duration
	Metrics   MetricsRecorder
}

func NewCallScriptUseCase(generator ScriptGenerator, timeout time.Duration, metrics MetricsRecorder) *CallScriptUseCase {
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	return &CallScriptUseCase{
		Generator: generator,
		Timeout:   timeout,
		Metrics:   metrics,
	}
}

// CallerIdentity is how the agent is introduced to the generator.
func CallerIdentity(u entity.User) string {
	return "Name: " + u.Name
}

func (uc *CallScriptUseCase) Execute(ctx context.Context, lead entity.Lead, caller string) string {
	if uc.Generator == nil {
		uc.record("missing_key")
		return ScriptMissingKey
	}

	ctx, cancel := context.WithTimeout(ctx, uc.Timeout)
	defer cancel()

	script, err := uc.Generator.GenerateScript(ctx, lead, caller)
	switch {
	case errors.Is(err, entity.ErrGeneratorNotConfigured):
		log.Println("⚠️ [SCRIPT] API key not found in environment variables")
		uc.record("missing_key")
		return ScriptMissingKey
	case err != nil:
		log.Printf("❌ [SCRIPT] generation failed for lead %s: %v", lead.ID, err)
		uc.record("error")
		return ScriptFailed
	case strings.TrimSpace(script) == "":
		uc.record("empty")
		return ScriptEmpty
	}

	uc.record("ok")
	return script
}

func (uc *CallScriptUseCase) record(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordScript(outcome)
	}
}
