package dto

// CustomField is one entry of the typed custom-data update payload.
// Value stays untyped on purpose: the declared Type drives coercion.
type CustomField struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Type  string      `json:"type"`
}

type UpdateCustomRequest struct {
	Data []CustomField `json:"data"`
}
