// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
)

// ValidateEvent validates an Event according to domain rules.
//
// Validation rules:
//   - Type must belong to the closed event-type set
//   - Timestamp must be non-zero
//   - SessionID must not be empty
//
// NOT validated:
//   - Data (free-form payload; text extraction tolerates any shape)
//   - AgentSessionNum (0 is valid before the first compaction)
//   - File/Line (populated by the reader, not part of the wire record)
func ValidateEvent(ev *Event) error {
	if ev == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if _, err := ParseEventType(string(ev.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if ev.Timestamp.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrInvalidTimestamp)
	}

	if ev.SessionID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptySessionID)
	}

	return nil
}
