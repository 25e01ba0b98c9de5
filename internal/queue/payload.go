package queue

// Payload is an encoded binary media payload: base64 data plus its mime type.
// Records store payloads inline so a queue entry is self-contained across
// restarts.
type Payload struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

// IsZero reports whether the payload carries no data.
func (p Payload) IsZero() bool {
	return p.Data == ""
}
