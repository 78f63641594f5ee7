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


package platform

import (
	"context"

	"github.com/poiesic/wayfind/core"
)

// Package is an installed application package.
type Package struct {
	Name     string
	LaunchID string
}

// InstallLocation maps a package launch identifier to its install directory.
// InstallPath is empty when the location could not be resolved.
type InstallLocation struct {
	LaunchID    string
	InstallPath string
}

// PackageEnumerator queries the OS for installed packages.
type PackageEnumerator interface {
	// ListInstalledPackages returns every installed package.
	// A failure may come with a partial result.
	ListInstalledPackages(ctx context.Context) ([]Package, error)

	// ResolveInstallLocations resolves install directories for all launchIDs
	// in a single call, regardless of how many are requested.
	ResolveInstallLocations(ctx context.Context, launchIDs []string) ([]InstallLocation, error)
}

// IconExtractor resolves a path to raster icon bytes.
type IconExtractor interface {
	// ExtractIcon returns encoded image bytes for path at the requested pixel
	// size. Returns nil, nil when the path has no icon.
	ExtractIcon(ctx context.Context, path string, size int) ([]byte, error)
}

// ProcessLauncher starts the program, document, URI or command behind an item.
type ProcessLauncher interface {
	Launch(ctx context.Context, item core.Item, elevated bool) error
}
