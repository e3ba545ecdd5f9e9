package api

type (
	// GenerateRequest asks the generation service for a blueprint
	GenerateRequest struct {
		Goal    string         `json:"goal"`
		Context map[string]any `json:"context"`
	}

	// StatusResponse is returned by the service root
	StatusResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
		Mode    string `json:"mode"`
	}

	// ErrorResponse is returned by any endpoint that fails
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}
)
