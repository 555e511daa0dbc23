package ai

import "io"

// PromptRequest is one prompt bound for the generate endpoint.
// Stream selects how the caller consumes the reply; the wire request is
// always streamed.
type PromptRequest struct {
	Text   string
	Model  string
	Stream bool
}

// generateRequest is the JSON body sent to the endpoint.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Response is a live reply whose Body yields newline-delimited JSON.
// The caller must Close it.
type Response struct {
	Body       io.ReadCloser
	StatusCode int
	Attempts   int
	RequestID  string
}

// Close releases the underlying connection.
func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
