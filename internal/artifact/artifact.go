// Package artifact emits the device-local files that wire the installed
// application into the graphical session: a launcher script, a session
// autostart entry, and a desktop shortcut. The systemd unit covers headless
// auto-start; these cover the manual/GUI-triggered path.
package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rs/zerolog"
)

// Params carries everything the generated files embed.
type Params struct {
	Name    string
	AppDir  string
	EnvDir  string
	HomeDir string

	AcceleratorLibDir string
	PluginDir         string
	SessionDelaySec   int
	Terminal          string
}

// Autostart is the set of generated files.
type Autostart struct {
	LauncherPath       string `json:"launcher_path"`
	AutostartEntryPath string `json:"autostart_entry_path"`
	DesktopEntryPath   string `json:"desktop_entry_path"`
}

// The launcher layers accelerator paths onto inherited values rather than
// overwriting them, waits for the desktop session, then opens a terminal
// that stays open after the app exits so crashes remain visible.
const launcherTemplate = `#!/bin/bash
# Generated by rigup; regenerate with "rigup provision".

export LD_LIBRARY_PATH="{{.AcceleratorLibDir}}${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}"
export GST_PLUGIN_PATH="{{.PluginDir}}${GST_PLUGIN_PATH:+:$GST_PLUGIN_PATH}"

# Let the graphical session finish initializing.
sleep {{.SessionDelaySec}}

export DISPLAY=:0
export XAUTHORITY="$HOME/.Xauthority"

{{.Terminal}} -e bash -c 'cd {{.AppDir}} && source {{.EnvDir}}/bin/activate && python main.py; exec bash'
`

const desktopTemplate = `[Desktop Entry]
Type=Application
Name={{.Name}}
Exec={{.LauncherPath}}
X-GNOME-Autostart-enabled=true
`

var (
	launcherTmpl = template.Must(template.New("launcher").Parse(launcherTemplate))
	desktopTmpl  = template.Must(template.New("desktop").Parse(desktopTemplate))
)

// Generator writes the artifacts.
type Generator struct {
	Log zerolog.Logger
}

// Generate writes the launcher script, the session autostart entry, and the
// desktop shortcut, all with execute permission.
func (g *Generator) Generate(p Params) (*Autostart, error) {
	out := &Autostart{
		LauncherPath:       filepath.Join(p.AppDir, "launch.sh"),
		AutostartEntryPath: filepath.Join(p.HomeDir, ".config", "autostart", p.Name+".desktop"),
		DesktopEntryPath:   filepath.Join(p.HomeDir, "Desktop", p.Name+".desktop"),
	}

	launcher, err := render(launcherTmpl, p)
	if err != nil {
		return nil, err
	}
	if err := writeExecutable(out.LauncherPath, launcher); err != nil {
		return nil, fmt.Errorf("write launcher: %w", err)
	}
	g.Log.Info().Msgf("wrote %s", out.LauncherPath)

	entry, err := render(desktopTmpl, struct {
		Params
		LauncherPath string
	}{p, out.LauncherPath})
	if err != nil {
		return nil, err
	}
	for _, path := range []string{out.AutostartEntryPath, out.DesktopEntryPath} {
		if err := writeExecutable(path, entry); err != nil {
			return nil, fmt.Errorf("write desktop entry: %w", err)
		}
		g.Log.Info().Msgf("wrote %s", path)
	}

	return out, nil
}

func render(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// writeExecutable writes the file with the execute bit set. Desktop entries
// need it too: the session manager refuses to launch non-executable entries.
func writeExecutable(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o755); err != nil {
		return err
	}
	// WriteFile honors umask; chmod makes the mode unconditional.
	return os.Chmod(path, 0o755)
}
