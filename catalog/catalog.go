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


// Package catalog holds the static searchable entries that do not come from
// enumeration: OS settings panels, system commands and well-known folders.
package catalog

import (
	"os"
	"path/filepath"

	"github.com/poiesic/wayfind/core"
)

type entry struct {
	name   string
	target string
}

var settingEntries = []entry{
	{"Display", "ms-settings:display"},
	{"Night light", "ms-settings:nightlight"},
	{"Sound", "ms-settings:sound"},
	{"Notifications", "ms-settings:notifications"},
	{"Focus assist", "ms-settings:quiethours"},
	{"Power & sleep", "ms-settings:powersleep"},
	{"Battery", "ms-settings:batterysaver"},
	{"Storage", "ms-settings:storagesense"},
	{"Multitasking", "ms-settings:multitasking"},
	{"Clipboard", "ms-settings:clipboard"},
	{"Remote Desktop", "ms-settings:remotedesktop"},
	{"About", "ms-settings:about"},
	{"Bluetooth & devices", "ms-settings:bluetooth"},
	{"Printers & scanners", "ms-settings:printers"},
	{"Mouse", "ms-settings:mousetouchpad"},
	{"Touchpad", "ms-settings:devices-touchpad"},
	{"Typing", "ms-settings:typing"},
	{"AutoPlay", "ms-settings:autoplay"},
	{"Network & internet", "ms-settings:network"},
	{"Wi-Fi", "ms-settings:network-wifi"},
	{"Ethernet", "ms-settings:network-ethernet"},
	{"VPN", "ms-settings:network-vpn"},
	{"Proxy", "ms-settings:network-proxy"},
	{"Personalization", "ms-settings:personalization"},
	{"Background", "ms-settings:personalization-background"},
	{"Colors", "ms-settings:colors"},
	{"Themes", "ms-settings:themes"},
	{"Lock screen", "ms-settings:lockscreen"},
	{"Taskbar", "ms-settings:taskbar"},
	{"Installed apps", "ms-settings:appsfeatures"},
	{"Default apps", "ms-settings:defaultapps"},
	{"Startup apps", "ms-settings:startupapps"},
	{"Accounts", "ms-settings:yourinfo"},
	{"Sign-in options", "ms-settings:signinoptions"},
	{"Date & time", "ms-settings:dateandtime"},
	{"Language & region", "ms-settings:regionlanguage"},
	{"Gaming", "ms-settings:gaming-gamebar"},
	{"Accessibility", "ms-settings:easeofaccess"},
	{"Privacy & security", "ms-settings:privacy"},
	{"Windows Security", "ms-settings:windowsdefender"},
	{"Windows Update", "ms-settings:windowsupdate"},
	{"Recovery", "ms-settings:recovery"},
	{"Activation", "ms-settings:activation"},
	{"Developer settings", "ms-settings:developers"},
}

var commandEntries = []entry{
	{"Shut down", "Stop-Computer"},
	{"Restart", "Restart-Computer"},
	{"Sleep", "rundll32.exe powrprof.dll,SetSuspendState 0,1,0"},
	{"Lock", "rundll32.exe user32.dll,LockWorkStation"},
	{"Sign out", "shutdown.exe /l"},
	{"Empty Recycle Bin", "Clear-RecycleBin -Force"},
	{"Task Manager", "Start-Process taskmgr.exe"},
	{"Control Panel", "Start-Process control.exe"},
	{"Command Prompt", "Start-Process cmd.exe"},
	{"PowerShell", "Start-Process powershell.exe"},
}

// Settings returns the settings panel catalog in display order.
func Settings() []core.Item {
	return build(settingEntries, core.KindSetting)
}

// Commands returns the system command catalog in display order.
func Commands() []core.Item {
	return build(commandEntries, core.KindCommand)
}

func build(entries []entry, kind core.Kind) []core.Item {
	items := make([]core.Item, len(entries))
	for i, e := range entries {
		items[i] = core.NewItem(e.name, kind, core.SourcePreDefined, core.PathTarget(e.target))
	}
	return items
}

var folderNames = []string{"Desktop", "Documents", "Downloads", "Pictures", "Music", "Videos"}

// Folders returns the well-known folder shortcuts under home, plus home itself.
// When home is empty the user's home directory is used; if that cannot be
// determined no shortcuts are returned.
func Folders(home string) []core.Item {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil
		}
	}

	items := make([]core.Item, 0, len(folderNames)+1)
	items = append(items, core.NewItem("Home", core.KindFolder, core.SourcePreDefined, core.PathTarget(home)))
	for _, name := range folderNames {
		items = append(items, core.NewItem(name, core.KindFolder, core.SourcePreDefined, core.PathTarget(filepath.Join(home, name))))
	}
	return items
}
