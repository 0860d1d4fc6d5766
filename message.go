package forge

// Message is a sealed interface representing a prior conversation turn.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
	Content() string
}

// UserMessage represents a message from the user.
type UserMessage struct {
	Text string
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// Content returns the message text.
func (m UserMessage) Content() string { return m.Text }

// AssistantMessage represents a message from the model.
type AssistantMessage struct {
	Text string
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Content returns the message text.
func (m AssistantMessage) Content() string { return m.Text }

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
