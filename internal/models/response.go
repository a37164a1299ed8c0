package models

type AnalyzeResponse struct {
	Report string `json:"report"`
	// HairstyleImage is a PNG data URI with a grid of hairstyle
	// variations. Absent when the optional image stage did not produce
	// one; its absence never changes the response status.
	HairstyleImage string `json:"hairstyleImage,omitempty"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
