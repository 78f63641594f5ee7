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

import "fmt"

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Kind and Source must be known values
//   - Package-sourced items carry a package target, FS and shortcut items
//     carry a path target
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyName)
	}

	if item.Kind < KindApp || item.Kind > KindCommand {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidItem, ErrInvalidKind, item.Kind)
	}

	switch item.Source {
	case SourcePackage:
		if item.Target.Kind != TargetPackage {
			return fmt.Errorf("%w: %w", ErrInvalidItem, ErrTargetMismatch)
		}
	case SourceShortcut, SourceFS:
		if item.Target.Kind != TargetPath {
			return fmt.Errorf("%w: %w", ErrInvalidItem, ErrTargetMismatch)
		}
	case SourcePreDefined:
	default:
		return fmt.Errorf("%w: %w: value %d", ErrInvalidItem, ErrInvalidSource, item.Source)
	}

	return nil
}
