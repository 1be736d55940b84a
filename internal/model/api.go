package model

// GenerateRequest is the inbound body of a generation call.
type GenerateRequest struct {
	Endpoint    string            `json:"endpoint,omitempty"`
	Method      string            `json:"method,omitempty"`
	OpenAPISpec string            `json:"openapi_spec,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        string            `json:"body,omitempty"`
}

// GenerateResponse is returned by a successful generation call.
type GenerateResponse struct {
	Success bool       `json:"success"`
	Tests   []TestCase `json:"tests"`
}

// ExecuteRequest is the inbound body of an execution call.
type ExecuteRequest struct {
	Tests []TestCase `json:"tests"`
}

// ExecuteResponse is returned by a successful execution call.
type ExecuteResponse struct {
	Success bool         `json:"success"`
	Results []TestResult `json:"results"`
}

// ErrorResponse is returned by any failed call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
