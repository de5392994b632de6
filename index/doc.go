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


// Package index implements the lexical search machinery: tokenization with
// stop-word filtering, a per-query inverted index, and BM25 scoring.
//
// An Index is built fresh for every query from the documents that survive
// filtering and is discarded afterwards. Construction is O(total tokens);
// the cost is paid per query instead of per log write, which keeps the log
// itself append-only and free of derived state.
//
// Everything in this package is deterministic: identical inputs produce
// identical token sequences, postings, and scores.
package index
