package companyscout

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one tool invocation requested by an assistant message.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one entry in a conversation transcript. ToolCalls is set only
// on assistant messages; ToolCallID and ToolName only on tool messages, and
// always reference a call emitted by the immediately preceding assistant
// message.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// HumanMessage builds a human-role message.
func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// AssistantMessage builds an assistant-role message with optional tool calls.
func AssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolMessage builds a tool-role message tagged with the originating call.
func ToolMessage(content, callID, toolName string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, ToolName: toolName}
}

// AppendMessages is the merge rule for message sequences: concatenation into
// a fresh slice. It never aliases dst's backing array, so merging updates
// [A] then [B] yields the same sequence as a single update [A, B].
func AppendMessages(dst, src []Message) []Message {
	if len(src) == 0 {
		return dst
	}
	out := make([]Message, 0, len(dst)+len(src))
	out = append(out, dst...)
	out = append(out, src...)
	return out
}

// AppendErrors is the merge rule for processing-error sequences.
func AppendErrors(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	out := make([]string, 0, len(dst)+len(src))
	out = append(out, dst...)
	out = append(out, src...)
	return out
}
