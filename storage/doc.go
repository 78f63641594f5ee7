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


// Package storage provides the persistence abstraction for wayfind.
//
// The Store interface is a plain key-value blob store. Components that keep
// state across restarts (the icon cache map, the launch stack and the list of
// indexed folders) encode their own values with the mus-go serializers in
// this package and store them under the well-known keys defined here.
//
// # Usage
//
// Open a BadgerDB-backed store:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// Use in tests with in-memory storage:
//
//	backend, err := badger.OpenBackend("", true)
//
// # Corruption
//
// Values that fail to decode are a recoverable condition: callers log the
// error and continue with an empty value. UnmarshalStrings and
// UnmarshalStringMap return ErrSerializationFailed wrapped around the
// underlying cause so callers can recognize it with errors.Is.
//
// # Thread Safety
//
// All Store implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
