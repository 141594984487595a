package model

// FieldValue is the payload of a single field emission.
type FieldValue struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// StepResponse is delivered to the host each time a field value changes.
type StepResponse struct {
	Data   FieldValue `json:"data"`
	Source Page       `json:"source"`
}

// Record is the flattened form of a field emission used by sinks and stores.
type Record struct {
	PageID  string `json:"pageId"`
	FieldID string `json:"fieldId"`
	Value   any    `json:"value"`
}
