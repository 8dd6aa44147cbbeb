package domain

// ActionContext describes one candidate action invocation. It is created per
// validation call and discarded afterwards. Payload is opaque to the validator
// and must never be logged in clear text.
type ActionContext struct {
	// Action is the capability name being invoked.
	Action string

	// Domain is the optional target domain (e.g. for a network fetch).
	Domain string

	// Path is the optional target filesystem path.
	Path string

	// PayloadSize is the declared payload size in bytes. Negative means unset.
	PayloadSize int64

	// Payload carries opaque call arguments for custom predicates.
	Payload map[string]any
}

// HasPayloadSize reports whether a payload size was declared for this call.
func (a *ActionContext) HasPayloadSize() bool {
	return a.PayloadSize >= 0
}
