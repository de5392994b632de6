package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a compact identifier derived from text content.
// Identical content always produces the identical ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HashContent returns the lowercase hex form of a 16-byte BLAKE2b digest of
// text. It is the key format of the summary cache, where collisions are
// costlier than in-process memo keys.
func HashContent(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// EventType identifies the kind of a logged session event.
type EventType string

const (
	EventSessionStart      EventType = "session-start"
	EventSessionEnd        EventType = "session-end"
	EventPrompt            EventType = "prompt"
	EventResponse          EventType = "response"
	EventToolPre           EventType = "tool-pre"
	EventToolPost          EventType = "tool-post"
	EventSubagentStop      EventType = "subagent-stop"
	EventNotification      EventType = "notification"
	EventPermissionRequest EventType = "permission-request"
	EventCompaction        EventType = "compaction"
)

// eventTypes is the closed set of valid wire values.
var eventTypes = map[EventType]bool{
	EventSessionStart:      true,
	EventSessionEnd:        true,
	EventPrompt:            true,
	EventResponse:          true,
	EventToolPre:           true,
	EventToolPost:          true,
	EventSubagentStop:      true,
	EventNotification:      true,
	EventPermissionRequest: true,
	EventCompaction:        true,
}

// ParseEventType validates a wire value against the closed event-type set.
func ParseEventType(s string) (EventType, error) {
	et := EventType(s)
	if !eventTypes[et] {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
	return et, nil
}

// Event is one record of the session log. Events are produced by an external
// capture mechanism, appended once, and never mutated.
type Event struct {
	Type            EventType      `json:"type"`
	Timestamp       time.Time      `json:"ts"`
	SessionID       string         `json:"session_id"`
	Data            map[string]any `json:"data"`
	AgentSessionNum int            `json:"agent_session_num"`

	// Provenance, populated by the reader. Not part of the wire record.
	File string `json:"-"`
	Line int    `json:"-"`
}

// Document is the searchable projection of a text-bearing Event.
// Its identity is the (File, Line) position of the source event; the
// projection is rebuilt from the log on every query and never persisted.
type Document struct {
	File            string
	Line            int
	Type            EventType
	Timestamp       time.Time
	SessionID       string
	AgentSessionNum int
	Text            string
}

// Ref returns the document's stable identity as "file:line".
func (d *Document) Ref() string {
	return d.File + ":" + strconv.Itoa(d.Line)
}
