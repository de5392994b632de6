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


// Package fallback provides local, deterministic AI service implementations.
//
// These implementations never contact a network and never fail, so search
// keeps working on machines with no model server running. The embedder
// hashes character n-grams into a fixed-width vector; it captures surface
// similarity (shared substrings), not meaning. Vectors live in a different
// space than any real model's output and must never be compared against
// model-produced vectors.
//
// Callers choose between this package and ai/openai once at startup, or
// switch to this package mid-run when the model endpoint stops responding.
package fallback
