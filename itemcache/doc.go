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


// Package itemcache discovers the launchable application list.
//
// Two sources are merged: a recursive walk of shortcut directories, which
// yields path-backed items, and a single enumeration of installed packages,
// which yields items identified by a launch id. Items are deduplicated by
// name, preferring entries that carry a path.
//
// Cache holds the current list and is the only component that replaces it.
package itemcache
