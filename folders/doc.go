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


// Package folders maintains the set of user-indexed folders and a flat item
// index per folder.
//
// The set is containment-free: no indexed folder is inside another. Adding a
// folder that covers indexed folders replaces them; adding a folder that is
// covered by one is rejected.
//
// Every change produces a new immutable snapshot which is swapped in
// atomically, so queries never observe a partial update. Once Watch is
// running, filesystem events under the indexed folders patch the affected
// index instead of re-walking it.
package folders
