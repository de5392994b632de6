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


package search

import "errors"

var (
	// ErrLogRootRequired is returned when a log directory is not provided.
	ErrLogRootRequired = errors.New("log root required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyQuery is returned when a search is attempted without query text.
	ErrEmptyQuery = errors.New("query required")

	// ErrBadAnchor is returned when a time anchor cannot be parsed.
	ErrBadAnchor = errors.New("unparsable time anchor")

	// ErrBadRange is returned when a time range starts after it ends.
	ErrBadRange = errors.New("from is after to")

	// ErrBadWeight is returned when the lexical weight falls outside [0, 1].
	ErrBadWeight = errors.New("weight out of range")

	// ErrBadLimit is returned when a limit or offset is negative.
	ErrBadLimit = errors.New("limit out of range")

	// ErrPairsNeedPrompts is returned when pairs mode is combined with a
	// type filter that excludes prompts.
	ErrPairsNeedPrompts = errors.New("pairs mode searches prompts only")
)
