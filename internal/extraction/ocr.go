package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"echo/internal/imageprep"
	"echo/internal/logging"
)

// OCREngine recognizes identifiers locally with Tesseract. It is free and
// offline but struggles with stylized game fonts, which is why the pipeline
// can fall back to the vision engine.
type OCREngine struct {
	clientFactory func() *gosseract.Client
	logger        *slog.Logger
}

// NewOCREngine constructs the local recognition strategy.
func NewOCREngine(logger *slog.Logger) *OCREngine {
	return &OCREngine{
		clientFactory: gosseract.NewClient,
		logger:        logging.NewComponentLogger(logger, "ocr"),
	}
}

func (e *OCREngine) Name() string { return string(EngineOCR) }

// Extract loads the image, converts it to grayscale, runs text recognition,
// and returns the first identifier-shaped substring. An unreadable image
// yields an empty Result rather than an error.
func (e *OCREngine) Extract(ctx context.Context, imagePath string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	img, err := imageprep.Load(imagePath)
	if err != nil {
		e.logger.Warn("could not load image", slog.String("path", imagePath), slog.Any("error", err))
		return Result{}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imageprep.Grayscale(img)); err != nil {
		return Result{}, fmt.Errorf("encode grayscale image: %w", err)
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}

	match := idPattern.FindString(text)
	if match == "" {
		return Result{}, nil
	}
	return Result{IDString: match, Confidence: wordConfidence(client, match)}, nil
}

// wordConfidence pulls the recognizer's confidence for the word containing
// the match, scaled into [0,1]. Zero when unavailable.
func wordConfidence(client *gosseract.Client, match string) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return 0
	}
	for _, box := range boxes {
		if strings.Contains(box.Word, match) {
			confidence := box.Confidence / 100.0
			if confidence < 0 {
				return 0
			}
			if confidence > 1 {
				return 1
			}
			return confidence
		}
	}
	return 0
}
