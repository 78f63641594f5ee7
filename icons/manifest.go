package icons

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the package manifest file inside an install location.
const ManifestName = "AppxManifest.xml"

// logoScales are tried in order before the unscaled logo.
var logoScales = []string{".scale-200", ".scale-100"}

type packageManifest struct {
	Logo string `xml:"Properties>Logo"`
}

// ReadLogo returns the logo reference from the manifest in installPath,
// relative to installPath.
func ReadLogo(installPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(installPath, ManifestName))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrManifestUnreadable, err)
	}

	var m packageManifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("%w: %w", ErrManifestUnreadable, err)
	}

	logo := strings.TrimSpace(m.Logo)
	if logo == "" {
		return "", ErrNoLogo
	}
	return filepath.FromSlash(strings.ReplaceAll(logo, `\`, "/")), nil
}

// LogoCandidates lists the files that may hold a logo, best first.
func LogoCandidates(installPath, logo string) []string {
	ext := filepath.Ext(logo)
	base := strings.TrimSuffix(logo, ext)

	candidates := make([]string, 0, len(logoScales)+1)
	for _, scale := range logoScales {
		candidates = append(candidates, filepath.Join(installPath, base+scale+ext))
	}
	return append(candidates, filepath.Join(installPath, logo))
}

// FindLogo returns the first existing logo file for the package installed at
// installPath.
func FindLogo(installPath string) (string, error) {
	logo, err := ReadLogo(installPath)
	if err != nil {
		return "", err
	}
	for _, candidate := range LogoCandidates(installPath, logo) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", ErrNoLogo
}
