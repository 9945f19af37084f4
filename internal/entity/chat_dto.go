package entity

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

// ChatResponse is the body returned by POST /chat. The trigger fields are
// present only when a rule fired; Sources only on the generative branch.
type ChatResponse struct {
	Triggered      bool     `json:"triggered"`
	TriggerID      string   `json:"trigger_id,omitempty"`
	MatchedKeyword string   `json:"matched_keyword,omitempty"`
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources,omitempty"`
}

// TriggerExecRequest is the body of POST /chatbot, the (simulated)
// external workflow execution endpoint.
type TriggerExecRequest struct {
	UserID    string `json:"user_id"`
	TriggerID string `json:"trigger_id"`
}

// TriggerExecResponse is the reply of the workflow execution endpoint.
type TriggerExecResponse struct {
	UserID    string `json:"user_id"`
	TriggerID string `json:"trigger_id"`
	Message   string `json:"message"`
}
