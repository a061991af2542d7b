// Package conversation defines the recorded call records served by the
// voice-agent backend. Field names follow the backend's JSON.
package conversation

// RoleUser is the role the backend stores for the caller's own turns.
const RoleUser = "user"

// Summary is one row of the conversation list.
type Summary struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	ActionTypes []string `json:"action_types"`
	OrderID     *string  `json:"order_id"`
	UserID      *string  `json:"user_id"`

	// Present on newer backends; never shown in the list.
	EndTime *string `json:"end_time,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

// Detail is the full record of one call.
type Detail struct {
	Summary
	History           []Message          `json:"conversation_history"`
	ExecutedFunctions []ExecutedFunction `json:"executed_functions"`
}

// Message is one transcript turn. Timestamp may be empty.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ExecutedFunction is a backend operation the agent ran during the call.
type ExecutedFunction struct {
	Function  string         `json:"function"`
	Arguments map[string]any `json:"arguments"`
	Timestamp string         `json:"timestamp"`
}

// IsUser reports whether role belongs to the caller. Every other role
// ("agent", "assistant", ...) is rendered as the agent side.
func IsUser(role string) bool {
	return role == RoleUser
}
