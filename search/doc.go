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


// Package search turns a typed query into a best match plus categorized
// result lists.
//
// The Engine matches apps, settings and commands by substring and files and
// folders by prefix, all against names normalized once at index time. Apps
// are reordered by launch recency, then the best match is taken from the
// first enabled category with candidates, in the fixed order apps, commands,
// settings, folders, files.
//
// Engine.Query runs through a Coalescer: one query executes at a time and
// at most one waits behind it. A newer query replaces the waiting one, which
// returns ErrSuperseded without running.
package search
