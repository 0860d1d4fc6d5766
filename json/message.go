package json

import (
	"fmt"

	"github.com/fwojciec/forge"
)

// messageDTO is the JSON representation of a Message with a role discriminator.
type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func marshalMessage(msg forge.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case forge.UserMessage:
		return messageDTO{Role: string(forge.RoleUser), Content: m.Text}, nil
	case forge.AssistantMessage:
		return messageDTO{Role: string(forge.RoleAssistant), Content: m.Text}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (forge.Message, error) {
	switch forge.Role(dto.Role) {
	case forge.RoleUser:
		return forge.UserMessage{Text: dto.Content}, nil
	case forge.RoleAssistant:
		return forge.AssistantMessage{Text: dto.Content}, nil
	default:
		return nil, fmt.Errorf("unknown message role: %q", dto.Role)
	}
}
