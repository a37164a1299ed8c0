package stylist

import (
	"context"
	"log"

	"angella-backend/internal/openai"
	"angella-backend/internal/submission"
)

// AnalysisResult is the merged outcome of the two generation stages. Report
// is always populated on success; HairstyleImage is present only when the
// optional image stage produced one.
type AnalysisResult struct {
	Report         string
	HairstyleImage string
}

// Orchestrator runs the two-stage analysis: a required text-report call and,
// for the full flow, an optional hairstyle image call whose failure never
// fails the request. Each Analyze call is stateless.
type Orchestrator struct {
	ai *openai.Client
}

func NewOrchestrator(ai *openai.Client) *Orchestrator {
	return &Orchestrator{ai: ai}
}

// Analyze validates the submission, generates the report and then tries the
// hairstyle image. Validation failures and Stage 1 provider failures abort
// with an error; everything that can go wrong in Stage 2 is logged and
// reduces to an absent image.
func (o *Orchestrator) Analyze(ctx context.Context, sub submission.Submission) (*AnalysisResult, error) {
	full := sub.HasPreferences()

	if sub.Photo == "" {
		if full {
			return nil, errMissingPhoto
		}
		return nil, errMissingFields
	}
	if !full && !sub.HasMetrics() {
		return nil, errMissingFields
	}

	report, err := o.ai.GenerateReport(ctx, systemPrompt, userText(sub, full), sub.Photo)
	if err != nil {
		return nil, err
	}
	if report == "" {
		report = placeholderReport
	}

	result := &AnalysisResult{Report: report}

	if full {
		if image := o.generateHairstyleImage(ctx, sub.Photo); image != "" {
			result.HairstyleImage = image
		}
	}

	return result, nil
}

// generateHairstyleImage is the optional second stage. It gets exactly one
// attempt and converts every failure into "no image".
func (o *Orchestrator) generateHairstyleImage(ctx context.Context, photoDataURI string) string {
	_, data, err := submission.ParsePhotoDataURI(photoDataURI)
	if err != nil {
		log.Printf("hairstyle generation skipped: %v", err)
		return ""
	}

	b64, err := o.ai.EditImage(ctx, hairstylePrompt, data)
	if err != nil {
		log.Printf("hairstyle generation failed: %v", err)
		return ""
	}

	return "data:image/png;base64," + b64
}
