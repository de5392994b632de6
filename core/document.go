package core

import (
	"slices"
	"strings"
)

// BuildDocument projects an Event into a searchable Document.
// Only prompt, response, tool-pre, and tool-post events carry text; for
// every other type, or when the extracted text is empty, ok is false.
func BuildDocument(ev Event) (doc Document, ok bool) {
	text := ExtractText(ev)
	if text == "" {
		return Document{}, false
	}
	return Document{
		File:            ev.File,
		Line:            ev.Line,
		Type:            ev.Type,
		Timestamp:       ev.Timestamp,
		SessionID:       ev.SessionID,
		AgentSessionNum: ev.AgentSessionNum,
		Text:            text,
	}, true
}

// ExtractText pulls the text body out of an event's data payload.
// Extraction is pure: identical payloads always yield identical text.
//
// Per-type rules:
//   - prompt: the "prompt" field
//   - response: the "text" field
//   - tool-pre: the tool name followed by the string leaves of "tool_input"
//   - tool-post: the tool name followed by the string leaves of "tool_response"
//
// String leaves of nested payloads are collected depth-first with map keys
// visited in sorted order, so the result does not depend on map iteration.
func ExtractText(ev Event) string {
	switch ev.Type {
	case EventPrompt:
		return cleanText(stringField(ev.Data, "prompt"))
	case EventResponse:
		return cleanText(stringField(ev.Data, "text"))
	case EventToolPre:
		return cleanText(joinNonEmpty(stringField(ev.Data, "tool_name"), flattenStrings(ev.Data["tool_input"])))
	case EventToolPost:
		return cleanText(joinNonEmpty(stringField(ev.Data, "tool_name"), flattenStrings(ev.Data["tool_response"])))
	default:
		return ""
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// flattenStrings collects the string leaves of a decoded JSON value.
func flattenStrings(v any) string {
	var parts []string
	collectStrings(v, &parts)
	return strings.Join(parts, " ")
}

func collectStrings(v any, parts *[]string) {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			*parts = append(*parts, s)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			collectStrings(val[k], parts)
		}
	case []any:
		for _, item := range val {
			collectStrings(item, parts)
		}
	}
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(s)
}
