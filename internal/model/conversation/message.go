package conversation

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Message is a single utterance within a turn. Assistant messages may carry
// chart data attached after the reply finished streaming.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ChartData *ChartData `json:"chartData,omitempty"`
}

// Turn pairs a user message with its evolving assistant reply. Both messages
// are created together so renderers always see a stable pair.
type Turn struct {
	User      Message `json:"user"`
	Assistant Message `json:"assistant"`
}
