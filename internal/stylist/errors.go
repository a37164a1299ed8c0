package stylist

// ValidationError is a missing or invalid required field. It is raised
// before any upstream call is made and maps to a 400 at the handler.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	errMissingPhoto  = &ValidationError{Message: "사진 정보가 필요합니다."}
	errMissingFields = &ValidationError{Message: "사진, 키, 몸무게 정보가 필요합니다."}
)
