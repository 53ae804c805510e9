package dispatcher

// Work represents a queued document processing request.
type Work struct {
	Path      string `json:"s3Location"`
	Operation string `json:"operation"`
}

// IsValid reports whether the message carries enough to be processed.
func (w *Work) IsValid() bool {
	return w.Path != "" && w.Operation != ""
}
