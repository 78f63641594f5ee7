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


package core

import (
	"strings"
	"unicode"
)

// Kind is the result category an item belongs to.
type Kind int

const (
	KindApp Kind = iota + 1
	KindFile
	KindFolder
	KindSetting
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	case KindSetting:
		return "setting"
	case KindCommand:
		return "command"
	}
	return "unknown"
}

// Source identifies where an item was discovered.
type Source int

const (
	// SourceShortcut is a shortcut file found under a start-menu style directory.
	SourceShortcut Source = iota + 1
	// SourcePackage is an installed package reported by the platform enumerator.
	SourcePackage
	// SourceFS is a file or folder found under a watched folder.
	SourceFS
	// SourcePreDefined is a static catalog entry.
	SourcePreDefined
)

func (s Source) String() string {
	switch s {
	case SourceShortcut:
		return "shortcut"
	case SourcePackage:
		return "package"
	case SourceFS:
		return "fs"
	case SourcePreDefined:
		return "predefined"
	}
	return "unknown"
}

// TargetKind discriminates what an item launches.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPath
	TargetPackage
)

// Target is what gets handed to the process launcher. Exactly one of a path,
// a package launch identifier, or nothing.
type Target struct {
	Kind  TargetKind
	Value string
}

// PathTarget returns a target backed by a filesystem path or URI.
func PathTarget(path string) Target {
	return Target{Kind: TargetPath, Value: path}
}

// PackageTarget returns a target backed by a package launch identifier.
func PackageTarget(launchID string) Target {
	return Target{Kind: TargetPackage, Value: launchID}
}

// Item is a single searchable entry.
type Item struct {
	Name   string
	Kind   Kind
	Source Source
	Target Target
	// Normalized is Normalize(Name), computed once when the item is built.
	Normalized string
}

// NewItem builds an Item and caches its normalized name.
func NewItem(name string, kind Kind, source Source, target Target) Item {
	return Item{
		Name:       name,
		Kind:       kind,
		Source:     source,
		Target:     target,
		Normalized: Normalize(name),
	}
}

// Path returns the item's path and whether it has one.
func (i Item) Path() (string, bool) {
	if i.Target.Kind != TargetPath {
		return "", false
	}
	return i.Target.Value, true
}

// PackageID returns the item's package launch identifier and whether it has one.
func (i Item) PackageID() (string, bool) {
	if i.Target.Kind != TargetPackage {
		return "", false
	}
	return i.Target.Value, true
}

// HasPath reports whether the item is backed by a path.
func (i Item) HasPath() bool {
	return i.Target.Kind == TargetPath
}

// Normalize lowercases s and removes all whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Filters enables or disables each result category for a query.
type Filters struct {
	Apps     bool
	Files    bool
	Folders  bool
	Settings bool
	Commands bool
}

// AllFilters returns Filters with every category enabled.
func AllFilters() Filters {
	return Filters{Apps: true, Files: true, Folders: true, Settings: true, Commands: true}
}

// Query is a single user query.
type Query struct {
	Raw     string
	Filters Filters
}

// ResultSet holds the best match and the categorized results of a query.
// BestMatch is nil when no category produced a candidate.
type ResultSet struct {
	BestMatch *Item
	Apps      []Item
	Files     []Item
	Folders   []Item
	Settings  []Item
	Commands  []Item
}

// Len returns the total number of results including the best match.
func (r *ResultSet) Len() int {
	n := len(r.Apps) + len(r.Files) + len(r.Folders) + len(r.Settings) + len(r.Commands)
	if r.BestMatch != nil {
		n++
	}
	return n
}
