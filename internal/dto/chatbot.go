package dto

// ChatbotQueryRequest is the free-text question.
type ChatbotQueryRequest struct {
	Query string `json:"query"`
}

// ChatbotAnswer mirrors the {ok, answer} result contract.
type ChatbotAnswer struct {
	OK     bool   `json:"ok"`
	Answer string `json:"answer"`
}

// ChatbotHealth reports matcher readiness.
type ChatbotHealth struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode"`
	Ready bool   `json:"ready"`
}
