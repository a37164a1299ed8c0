package submission

// Style preference options shown in the client.
const (
	StyleMinimal    = "minimal"
	StyleStreetwear = "streetwear"
	StyleCasual     = "casual"
	StyleFormal     = "formal"
)

const (
	ColorWarm    = "warm"
	ColorCool    = "cool"
	ColorNeutral = "neutral"
	ColorVibrant = "vibrant"
)

const (
	OccasionDaily  = "daily"
	OccasionOffice = "office"
	OccasionDate   = "date"
	OccasionParty  = "party"
)

// Submission is everything a user enters before paying: a photo plus body
// metrics and style preferences. It is the unit of work the whole workflow
// moves around — saved as a draft before the checkout redirect, restored
// after payment, and finally sent to analysis.
type Submission struct {
	Photo           string   `json:"photo"`
	HeightCm        float64  `json:"heightCm,omitempty"`
	WeightKg        float64  `json:"weightKg,omitempty"`
	Style           string   `json:"style,omitempty"`
	ColorPreference string   `json:"colorPreference,omitempty"`
	Occasions       []string `json:"occasions,omitempty"`
}

// HasPreferences reports whether any style-preference field is set. A
// submission with preferences goes through the full analysis flow
// (including hairstyle generation); one without goes through the minimal
// flow that only needs photo and body metrics.
func (s Submission) HasPreferences() bool {
	return s.Style != "" || s.ColorPreference != "" || len(s.Occasions) > 0
}

// HasMetrics reports whether both body metrics are present and positive.
func (s Submission) HasMetrics() bool {
	return s.HeightCm > 0 && s.WeightKg > 0
}

// CheckoutEligible reports whether the submission is complete enough to
// start a payment. The draft is saved without validation; this gate runs
// before the checkout call, not at storage time.
func (s Submission) CheckoutEligible() bool {
	return s.Photo != "" && s.HasMetrics()
}

// NormalizedOccasions returns the occasions to use for analysis, falling
// back to daily when the user picked none. The stored draft keeps the raw
// (possibly empty) set; the default applies only here, at consumption.
func (s Submission) NormalizedOccasions() []string {
	if len(s.Occasions) == 0 {
		return []string{OccasionDaily}
	}
	return s.Occasions
}

func ValidStyle(v string) bool {
	switch v {
	case StyleMinimal, StyleStreetwear, StyleCasual, StyleFormal:
		return true
	}
	return false
}

func ValidColorPreference(v string) bool {
	switch v {
	case ColorWarm, ColorCool, ColorNeutral, ColorVibrant:
		return true
	}
	return false
}

func ValidOccasion(v string) bool {
	switch v {
	case OccasionDaily, OccasionOffice, OccasionDate, OccasionParty:
		return true
	}
	return false
}
