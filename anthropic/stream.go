package anthropic

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/forge"
)

// collector folds SSE events from a Messages stream into a Completion.
type collector struct {
	scanner *bufio.Scanner
	text    strings.Builder
	out     forge.Completion
	done    bool
}

// collect reads body until message_stop and returns the assembled
// completion. A stream that ends early is an error; the partial text is
// discarded.
func collect(body io.Reader) (forge.Completion, error) {
	c := &collector{
		scanner: bufio.NewScanner(body),
		out:     forge.Completion{Provider: forge.ProviderAnthropic, StopReason: forge.StopUnknown},
	}
	c.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for !c.done {
		eventType, data, err := c.readSSEEvent()
		if err == io.EOF {
			return forge.Completion{}, &forge.ProviderError{
				Kind: forge.KindTransient, Provider: forge.ProviderAnthropic, Message: "unexpected end of stream",
			}
		}
		if err != nil {
			return forge.Completion{}, err
		}
		if err := c.processEvent(eventType, data); err != nil {
			return forge.Completion{}, err
		}
	}
	c.out.Text = c.text.String()
	return c.out, nil
}

// readSSEEvent reads lines until a complete SSE event is assembled.
// Returns the event type and the data payload.
func (c *collector) readSSEEvent() (string, string, error) {
	var eventType string
	var dataBuf strings.Builder

	for c.scanner.Scan() {
		line := c.scanner.Text()

		if line == "" {
			if dataBuf.Len() > 0 {
				return eventType, dataBuf.String(), nil
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and unknown fields.
	}

	if err := c.scanner.Err(); err != nil {
		return "", "", fmt.Errorf("anthropic: %w", err)
	}
	if dataBuf.Len() > 0 {
		return eventType, dataBuf.String(), nil
	}
	return "", "", io.EOF
}

func (c *collector) processEvent(eventType, data string) error {
	switch eventType {
	case "message_start":
		var evt sseMessageStart
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse message_start: %w", err)
		}
		c.out.Usage.InputTokens = evt.Message.Usage.InputTokens
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
		}
		// Only text reaches the completion; thinking and signatures are dropped.
		if evt.Delta.Type == "text_delta" {
			c.text.WriteString(evt.Delta.Text)
		}
	case "message_delta":
		var evt sseMessageDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse message_delta: %w", err)
		}
		c.out.Usage.OutputTokens = evt.Usage.OutputTokens
		if evt.Delta.StopReason != nil {
			c.out.StopReason = mapStopReason(*evt.Delta.StopReason)
		}
	case "message_stop":
		c.done = true
	case "error":
		var evt sseError
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse error event: %w", err)
		}
		kind := kindFromErrorType(evt.Error.Type)
		if kind == forge.KindUnknown {
			kind = forge.Classify(forge.ProviderAnthropic, evt.Error.Message)
		}
		return &forge.ProviderError{
			Kind: kind, Provider: forge.ProviderAnthropic,
			Message: fmt.Sprintf("%s: %s", evt.Error.Type, evt.Error.Message),
		}
	}
	// ping, content_block_start, content_block_stop and unknown event
	// types carry nothing the completion needs.
	return nil
}

func mapStopReason(raw string) forge.StopReason {
	switch raw {
	case "end_turn", "stop_sequence":
		return forge.StopEndTurn
	case "max_tokens":
		return forge.StopLength
	case "refusal":
		return forge.StopError
	default:
		return forge.StopUnknown
	}
}
