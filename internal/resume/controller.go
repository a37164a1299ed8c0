package resume

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"angella-backend/internal/draft"
	"angella-backend/internal/stylist"
	"angella-backend/internal/submission"
)

// successParam is the query parameter the payment provider's return URL
// carries. Its presence is the only payment-success signal the workflow
// has; it is never verified against the provider.
const successParam = "success"

// Phase is the analysis lifecycle of the current session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseReportReady
	PhaseFailed
)

// Step is the position in the pre-checkout entry sequence.
type Step int

const (
	StepHome Step = iota
	StepPhoto
	StepPreferences
)

var (
	// ErrNoDraft means a successful-payment return was detected but no
	// saved draft exists, so analysis cannot auto-resume. Degraded, not
	// fatal: the user re-enters their data.
	ErrNoDraft = errors.New("no saved draft to resume")

	// ErrIncompleteDraft means the restored draft is missing the photo or
	// body metrics, so the analysis call must not be made.
	ErrIncompleteDraft = errors.New("restored draft is incomplete")

	// ErrStepIncomplete guards forward navigation past a step whose
	// required fields are not filled in yet.
	ErrStepIncomplete = errors.New("current step is incomplete")
)

// Analyzer produces a report for a completed submission. The terminal
// client satisfies it with the backend HTTP API.
type Analyzer interface {
	Analyze(ctx context.Context, sub submission.Submission) (*stylist.AnalysisResult, error)
}

// Controller is the client-side state machine around the payment redirect:
// it walks the entry steps, saves the draft before checkout, detects the
// successful return, restores the draft and triggers analysis at most once
// per resume event.
type Controller struct {
	store    *draft.Store
	analyzer Analyzer

	mu      sync.Mutex
	phase   Phase
	step    Step
	sub     submission.Submission
	result  *stylist.AnalysisResult
	lastErr error
	address string
}

func NewController(store *draft.Store, analyzer Analyzer) *Controller {
	return &Controller{store: store, analyzer: analyzer}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Submission returns a copy of the current field values.
func (c *Controller) Submission() submission.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub
}

// Result returns the analysis result once the phase is PhaseReportReady.
func (c *Controller) Result() *stylist.AnalysisResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Address returns the page address as the controller last normalized it;
// after a resume the success indicator has been stripped so a reload does
// not re-trigger resumption.
func (c *Controller) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

func (c *Controller) SetPhoto(photoDataURI string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub.Photo = photoDataURI
}

func (c *Controller) SetMetrics(heightCm, weightKg float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub.HeightCm = heightCm
	c.sub.WeightKg = weightKg
}

func (c *Controller) SetPreferences(style, colorPreference string, occasions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub.Style = style
	c.sub.ColorPreference = colorPreference
	c.sub.Occasions = occasions
}

// Advance moves one step forward. Leaving the photo step requires the photo
// and both metrics; there is no flag combination that can skip the gate.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepHome:
		c.step = StepPhoto
	case StepPhoto:
		if !c.sub.CheckoutEligible() {
			return ErrStepIncomplete
		}
		c.step = StepPreferences
	case StepPreferences:
		return ErrStepIncomplete
	}
	return nil
}

func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > StepHome {
		c.step--
	}
}

// SaveDraft persists the current submission for the checkout redirect. The
// eligibility gate runs here, right before the one-way handoff; the store
// itself never validates.
func (c *Controller) SaveDraft() error {
	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()

	if !sub.CheckoutEligible() {
		return ErrStepIncomplete
	}
	return c.store.Save(sub)
}

// HandleReturn inspects a page address at load time and, when the success
// indicator is present, performs the resume: restore the draft, strip the
// indicator from the address, and trigger analysis. At most one analysis
// runs per resume event; re-entry while one is in flight, or after a result
// exists, is suppressed.
func (c *Controller) HandleReturn(ctx context.Context, pageURL string) (*stylist.AnalysisResult, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	if u.Query().Get(successParam) != "true" {
		return nil, nil
	}

	c.mu.Lock()
	if c.phase == PhaseSubmitting || c.result != nil {
		result := c.result
		c.mu.Unlock()
		return result, nil
	}

	sub, ok := c.store.Restore()
	if !ok {
		c.mu.Unlock()
		return nil, ErrNoDraft
	}

	c.sub = sub

	// Strip the indicator so a reload of this address is not treated as
	// another successful return.
	q := u.Query()
	q.Del(successParam)
	u.RawQuery = q.Encode()
	c.address = u.String()

	if sub.Photo == "" || !sub.HasMetrics() {
		c.mu.Unlock()
		return nil, ErrIncompleteDraft
	}

	eventID := uuid.NewString()
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	log.Printf("resume %s: payment return detected, starting analysis", eventID)
	result, err := c.analyzer.Analyze(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseFailed
		c.lastErr = err
		log.Printf("resume %s: analysis failed: %v", eventID, err)
		return nil, err
	}

	c.phase = PhaseReportReady
	c.result = result
	log.Printf("resume %s: report ready", eventID)
	return result, nil
}

// Reset discards the session state and returns to the home step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseIdle
	c.step = StepHome
	c.sub = submission.Submission{}
	c.result = nil
	c.lastErr = nil
	c.address = ""
}
