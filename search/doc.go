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


// Package search executes hybrid lexical and semantic queries over session
// event logs.
//
// The Searcher type implements a multi-stage search:
//   - Filter events by type, session, and time range
//   - Score candidate documents with BM25 over a per-query inverted index
//   - Optionally blend in cosine similarity of vector embeddings
//   - Rank, paginate, and render results as snippets or full text
//
// Every stage is deterministic: a fixed log state and a fixed query always
// produce the same candidates, the same scores, and the same ordering. Only
// documents with a positive lexical score are candidates; semantic scoring
// reorders candidates, it never introduces new ones.
package search
