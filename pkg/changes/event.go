package changes

import (
	// blank import for embeds
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/event_schema.json
var eventSchema []byte

const (
	PullRequest = "pull_request"
	Push        = "push"
)

// Event is the part of a GitHub Actions context that decides what changed.
type Event struct {
	Name    string  `json:"event_name"`
	Payload Payload `json:"event"`
}

// Payload holds the refs of a pull_request or push event. Other fields of
// the context are ignored.
type Payload struct {
	BaseRef string `json:"base_ref"`
	Before  string `json:"before"`
	After   string `json:"after"`
}

// EventError reports an unreadable or malformed context file.
type EventError struct {
	Filename string
	Field    string
	Message  string
}

func (e *EventError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid event in %s at %q: %s", e.Filename, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid event in %s: %s", e.Filename, e.Message)
}

func (e *EventError) ConfigError() {}

// LoadEvent reads and validates a context file written by the workflow.
func LoadEvent(filename string) (*Event, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseEvent(filename, contents)
}

// ParseEvent validates contents against the event schema and decodes it.
func ParseEvent(filename string, contents []byte) (*Event, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(eventSchema),
		gojsonschema.NewBytesLoader(contents),
	)
	if err != nil {
		return nil, &EventError{Filename: filename, Message: err.Error()}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, &EventError{Filename: filename, Field: first.Field(), Message: first.Description()}
	}

	ev := &Event{}
	if err := json.Unmarshal(contents, ev); err != nil {
		return nil, &EventError{Filename: filename, Message: err.Error()}
	}
	return ev, nil
}
