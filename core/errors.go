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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvent indicates an Event failed validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrUnknownEventType indicates a type value outside the closed event-type set.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidTimestamp indicates a missing or zero event timestamp.
	ErrInvalidTimestamp = errors.New("timestamp missing or zero")

	// ErrEmptySessionID indicates the session_id field is empty.
	ErrEmptySessionID = errors.New("session id cannot be empty")
)
