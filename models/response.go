package models

// ProcessResponse is the response for POST /api/process.
//
// A 200 only acknowledges that the background job was started; the outcome
// of the job is never reported back to the caller.
type ProcessResponse struct {
	Message       string       `json:"message,omitempty"`
	EstimatedTime string       `json:"estimatedTime,omitempty"`
	Success       *bool        `json:"success,omitempty"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

// GenerateDocResponse is the response for POST /api/generate-doc.
type GenerateDocResponse struct {
	Success  bool         `json:"success"`
	Filename string       `json:"filename,omitempty"`
	Filepath string       `json:"filepath,omitempty"`
	Size     int64        `json:"size,omitempty"`
	Error    *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET / and GET /health.
type HealthResponse struct {
	Status    string `json:"status"` // always "OK" while the process serves requests
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
}

// Artifact describes a rendered solution document on local disk.
type Artifact struct {
	Filename string
	Path     string
	Size     int64
}

// Delivery is the outcome of handing a document to the mail transport.
type Delivery struct {
	Success   bool
	MessageID string
	Message   string
}
