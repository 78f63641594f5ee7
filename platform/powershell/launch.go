package powershell

import (
	"context"
	"fmt"

	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/platform"
)

// Launch starts a path, URI or packaged app, optionally elevated. Command
// items carry a PowerShell command line and are run as-is, or in a new
// elevated PowerShell when elevated is set.
func (c *Client) Launch(ctx context.Context, item core.Item, elevated bool) error {
	target := item.Target
	if target.Value == "" {
		return platform.ErrUnsupportedTarget
	}

	var script string
	switch {
	case item.Kind == core.KindCommand && target.Kind == core.TargetPath && elevated:
		script = "Start-Process -FilePath (Get-Process -Id $PID).Path -Verb RunAs -ArgumentList " +
			"'-NoProfile','-Command'," + quote(target.Value)
	case item.Kind == core.KindCommand && target.Kind == core.TargetPath:
		script = target.Value
	case target.Kind == core.TargetPath:
		script = "Start-Process -FilePath " + quote(target.Value)
	case target.Kind == core.TargetPackage:
		script = "Start-Process -FilePath " + quote(`shell:AppsFolder\`+target.Value)
	default:
		return platform.ErrUnsupportedTarget
	}
	if elevated && item.Kind != core.KindCommand {
		script += " -Verb RunAs"
	}

	if _, err := c.runScript(ctx, script); err != nil {
		return fmt.Errorf("failed to launch %s: %w", item.Name, err)
	}
	return nil
}
