package models

type AnalyzeRequest struct {
	// Photo as a base64 data URI, e.g. "data:image/jpeg;base64,..."
	Photo    string  `json:"photo"`
	HeightCm float64 `json:"heightCm,omitempty" example:"170"`
	WeightKg float64 `json:"weightKg,omitempty" example:"65"`
	// Optional style preferences. When any of these are present the full
	// flow runs, which also attempts hairstyle generation.
	Style           string   `json:"style,omitempty" example:"minimal"`
	ColorPreference string   `json:"colorPreference,omitempty" example:"neutral"`
	Occasions       []string `json:"occasions,omitempty"`
}

type CheckoutRequest struct {
	// ProductID is the Polar product to create a checkout session for.
	ProductID string `json:"productId"`
	// SuccessURL is where Polar redirects after payment. Defaults to the
	// request origin with a success indicator query parameter.
	SuccessURL string `json:"successUrl,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
