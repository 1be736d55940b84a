package generator

import "fmt"

// UpstreamError is returned when the model API answers with a non-success status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream model returned error status %d: %s. Check your API key and endpoint.", e.StatusCode, e.Body)
}

// ExtractionError is returned when the model response does not carry generated
// text where it is expected. Envelope holds the full response for diagnosis.
type ExtractionError struct {
	Reason   string
	Envelope string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from model response (%s). Full response: %s", e.Reason, e.Envelope)
}

// ParseError is returned when recovered model output is not a JSON array of
// test cases.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing generated test cases: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
