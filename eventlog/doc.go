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


// Package eventlog reads session events from line-oriented JSON log files.
//
// The log is append-only and written by an external capture mechanism: one
// file per session, grouped into calendar-date directories. Reader streams
// events lazily in file-then-line order and recovers locally from bad input:
// a malformed line is skipped and counted, an unreadable file is recorded as
// a failed path, and neither aborts the remaining files. The counters are
// available through Report after iteration so callers can surface them as
// end-of-run warnings instead of losing them.
package eventlog
