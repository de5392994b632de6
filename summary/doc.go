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


// Package summary caches generated result summaries across invocations.
//
// Summaries are keyed by a hash of the exact text they describe, so a cache
// entry never goes stale: changed text means a changed key. The cache lives
// in a single binary file written atomically (temp file + rename), and a
// missing, truncated, or wrong-version file reads as an empty cache. The
// cache is an accelerator, never a correctness dependency; losing it only
// costs recomputation.
//
// Service ties the cache to an ai.Summarizer and itself implements
// ai.Summarizer, so callers can treat cached and uncached summarization
// interchangeably.
package summary
