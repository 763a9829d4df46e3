package service

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
)

// Definition describes the background service the registrar installs.
// It persists in systemd across reboots until explicitly disabled.
type Definition struct {
	Name        string
	Description string
	WorkingDir  string
	Environment map[string]string
	// PreStart is best-effort diagnostics; rendered with a leading "-" so
	// its failure never blocks startup.
	PreStart     string
	ExecStart    string
	RestartDelay int // seconds
}

const unitTemplate = `[Unit]
Description={{.Description}}
After=graphical.target network-online.target
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory={{.WorkingDir}}
{{- range .EnvLines}}
Environment={{.}}
{{- end}}
{{- if .PreStart}}
ExecStartPre=-{{.PreStart}}
{{- end}}
ExecStart={{.ExecStart}}
Restart=always
RestartSec={{.RestartDelay}}

[Install]
WantedBy=graphical.target
`

var unitTmpl = template.Must(template.New("unit").Parse(unitTemplate))

// Render produces the systemd unit file content. Environment lines are
// sorted so the output is deterministic.
func (d Definition) Render() ([]byte, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("service definition has no name")
	}
	if d.ExecStart == "" {
		return nil, fmt.Errorf("service %s has no start command", d.Name)
	}

	var envLines []string
	for k, v := range d.Environment {
		envLines = append(envLines, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(envLines)

	data := struct {
		Definition
		EnvLines []string
	}{d, envLines}

	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render unit: %w", err)
	}
	return buf.Bytes(), nil
}

// UnitPath returns where the unit file lives in the service manager's
// configuration.
func (d Definition) UnitPath() string {
	return "/etc/systemd/system/" + d.Name + ".service"
}
