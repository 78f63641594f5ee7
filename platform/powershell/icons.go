package powershell

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
)

const extractIconScript = `Add-Type -AssemblyName System.Drawing
$icon = [System.Drawing.Icon]::ExtractAssociatedIcon(%s)
if ($icon) {
  $bmp = New-Object System.Drawing.Bitmap($icon.ToBitmap(), %d, %d)
  $ms = New-Object System.IO.MemoryStream
  $bmp.Save($ms, [System.Drawing.Imaging.ImageFormat]::Png)
  [Convert]::ToBase64String($ms.ToArray())
}`

// ExtractIcon renders the shell icon associated with path as a PNG.
// Extraction is attempted once; a failed icon is not worth delaying the batch.
func (c *Client) ExtractIcon(ctx context.Context, path string, size int) ([]byte, error) {
	out, err := c.runScript(ctx, fmt.Sprintf(extractIconScript, quote(path), size, size))
	if err != nil {
		return nil, fmt.Errorf("failed to extract icon for %s: %w", path, err)
	}
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(string(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon for %s: %w", path, err)
	}
	return data, nil
}
