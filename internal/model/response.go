package model

// GenerateResponse is the body returned for a learning path request.
type GenerateResponse struct {
	Success      bool         `json:"success"`
	LearningPath LearningPath `json:"learning_path"`
	Quiz         []Question   `json:"quiz"`
	Stats        Stats        `json:"stats"`
}

// QuizResponse is the body returned for a standalone quiz request.
type QuizResponse struct {
	Success bool       `json:"success"`
	Quiz    []Question `json:"quiz"`
}

// FeedbackResponse is the body returned for quiz feedback.
type FeedbackResponse struct {
	Success  bool     `json:"success"`
	Feedback Feedback `json:"feedback"`
}

// HealthResponse reports service status and whether a model is configured.
type HealthResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	HasAPIKey bool     `json:"has_api_key"`
	Provider  string   `json:"provider"`
	Model     string   `json:"model,omitempty"`
	Languages []string `json:"languages"`
}

// ErrorResponse is the body returned for client and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServiceConfig holds runtime service parameters set via CLI flags.
type ServiceConfig struct {
	Provider    string   // gemini, openai or none
	Model       string   // model name reported by the health endpoint
	HasAPIKey   bool     // a credential was configured for the provider
	CORSOrigins []string // allowed origins; "*" allows any
	RateLimit   int      // requests per minute per client IP; 0 disables
}
