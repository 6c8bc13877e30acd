package model

type GenerateRequestBody struct {
	Mood       string `json:"mood"`
	StartChord string `json:"start_chord"`
	NumChords  *int   `json:"num_chords,omitempty"`
}

type GenerateResponse struct {
	SessionId   string      `json:"session_id"`
	Progression Progression `json:"progression"`
}

type RenderRequestBody struct {
	Progression Progression   `json:"progression"`
	Options     RenderOptions `json:"options"`
	Format      string        `json:"format"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
	Field string `json:"field,omitempty"`
}
