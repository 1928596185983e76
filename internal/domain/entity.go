package domain

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) String() string {
	return string(r)
}

// Turn is one entry of the conversation history exchanged with a provider.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ImageChoice is one candidate image the model may select from.
type ImageChoice struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Utterance is one line of the model's structured reply.
type Utterance struct {
	Said    string `json:"said"`
	Context string `json:"context"`
}

// ChatResult is the normalized reply shape returned to the HTTP layer.
// Produced fresh per request, never persisted here.
type ChatResult struct {
	Conversation  []Utterance `json:"conversation"`
	ImageSelected string      `json:"image"`
	Summary       string      `json:"summary"`
	SessionID     string      `json:"session_id"`
}

// SummaryResult is the normalized reply of the summarization pipeline.
type SummaryResult struct {
	Result string `json:"result"`
}

// SummaryTurn is one (user utterance, system utterance) pair of the history
// handed to the note summarizer. User may be empty for system-only turns.
type SummaryTurn struct {
	User   string `json:"user"`
	System string `json:"system"`
}

// Cooldown purpose keys. One row per (user, purpose) in the store.
const (
	PurposeEvaluation = "evaluation"
	PurposeSummary    = "summary"
	PurposeUpload     = "upload"
)

// Purposes lists every cooldown-gated action, in provisioning order.
var Purposes = []string{PurposeEvaluation, PurposeSummary, PurposeUpload}
