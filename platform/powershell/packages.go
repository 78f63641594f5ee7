package powershell

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/poiesic/wayfind/platform"
)

const listPackagesScript = `Get-StartApps | Select-Object Name, AppID | ConvertTo-Json -Compress`

type startApp struct {
	Name  string `json:"Name"`
	AppID string `json:"AppID"`
}

type appxPackage struct {
	PackageFamilyName string `json:"PackageFamilyName"`
	InstallLocation   string `json:"InstallLocation"`
}

// ListInstalledPackages lists start-menu applications with their launch ids.
func (c *Client) ListInstalledPackages(ctx context.Context) ([]platform.Package, error) {
	out, err := c.runScriptWithRetry(ctx, listPackagesScript)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}

	apps, err := decodeList[startApp](out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode installed packages: %w", err)
	}

	packages := make([]platform.Package, 0, len(apps))
	for _, app := range apps {
		if app.Name == "" || app.AppID == "" {
			continue
		}
		packages = append(packages, platform.Package{Name: app.Name, LaunchID: app.AppID})
	}
	return packages, nil
}

// ResolveInstallLocations resolves all launch ids with one Get-AppxPackage call.
// Ids that do not name a packaged app resolve to an empty InstallPath.
func (c *Client) ResolveInstallLocations(ctx context.Context, launchIDs []string) ([]platform.InstallLocation, error) {
	if len(launchIDs) == 0 {
		return nil, nil
	}

	families := make([]string, 0, len(launchIDs))
	seen := make(map[string]bool, len(launchIDs))
	for _, id := range launchIDs {
		family := packageFamily(id)
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		families = append(families, quote(family))
	}

	paths := make(map[string]string, len(families))
	if len(families) > 0 {
		script := fmt.Sprintf(
			"$ids = @(%s); Get-AppxPackage | Where-Object { $ids -contains $_.PackageFamilyName } | Select-Object PackageFamilyName, InstallLocation | ConvertTo-Json -Compress",
			strings.Join(families, ","),
		)
		out, err := c.runScriptWithRetry(ctx, script)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve install locations: %w", err)
		}
		pkgs, err := decodeList[appxPackage](out)
		if err != nil {
			return nil, fmt.Errorf("failed to decode install locations: %w", err)
		}
		for _, pkg := range pkgs {
			paths[pkg.PackageFamilyName] = pkg.InstallLocation
		}
	}

	locations := make([]platform.InstallLocation, len(launchIDs))
	for i, id := range launchIDs {
		locations[i] = platform.InstallLocation{
			LaunchID:    id,
			InstallPath: paths[packageFamily(id)],
		}
	}
	return locations, nil
}

// packageFamily extracts the family name from an "Family!AppId" launch id.
func packageFamily(launchID string) string {
	family, _, ok := strings.Cut(launchID, "!")
	if !ok {
		return ""
	}
	return family
}

// decodeList decodes ConvertTo-Json output, which is a bare object when the
// pipeline produced exactly one element and empty when it produced none.
func decodeList[T any](out []byte) ([]T, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}
	if out[0] == '{' {
		var single T
		if err := json.Unmarshal(out, &single); err != nil {
			return nil, err
		}
		return []T{single}, nil
	}
	var list []T
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, err
	}
	return list, nil
}
