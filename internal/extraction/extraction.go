package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// idPattern matches the first identifier-shaped substring in recognized text.
var idPattern = regexp.MustCompile(`[A-Za-z0-9]+#[0-9]{4}`)

// Result is one strategy's best guess at the identifier shown in a
// screenshot. Confidence is in [0,1]; the OCR engine reports whatever the
// recognizer offers and zero when nothing is available.
type Result struct {
	IDString   string
	Confidence float64
}

// Empty reports whether the strategy found nothing.
func (r Result) Empty() bool {
	return r.IDString == ""
}

// Strategy extracts a raw player identifier from a screenshot image. An
// unreadable image is an empty Result, not an error; errors are reserved for
// failures the caller may want to fall back from.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, imagePath string) (Result, error)
}

// Engine selects which extraction strategy the pipeline runs first.
type Engine string

const (
	EngineOCR    Engine = "ocr"
	EngineVision Engine = "vision"
)

// ParseEngine maps a CLI or config value onto an Engine. The original tool's
// engine names are accepted as aliases.
func ParseEngine(value string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(EngineOCR), "opencv", "local":
		return EngineOCR, nil
	case string(EngineVision), "openai", "remote":
		return EngineVision, nil
	}
	return "", fmt.Errorf("unknown extraction engine %q", value)
}

// Other returns the engine the pipeline falls back to.
func (e Engine) Other() Engine {
	if e == EngineVision {
		return EngineOCR
	}
	return EngineVision
}

func (e Engine) String() string {
	return string(e)
}
