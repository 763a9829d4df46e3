package provision

import (
	"context"
	"fmt"
	"strings"
)

// Verifier smoke-checks the installed vision stack by importing the main
// third-party library inside the environment and asserting it reports a
// version string.
type Verifier struct {
	Python string // path to <env>/bin/python
	Cmd    CommandRunner
}

// SmokeCheck runs the import probe. Any error or empty version output is a
// step failure like any other.
func (v *Verifier) SmokeCheck(ctx context.Context) (string, error) {
	out, err := v.Cmd.Run(ctx, "", v.Python, "-c", "import cv2; print(cv2.__version__)")
	if err != nil {
		return "", fmt.Errorf("import cv2: %w", err)
	}
	version := strings.TrimSpace(out)
	if version == "" {
		return "", fmt.Errorf("cv2 reported an empty version string")
	}
	return version, nil
}
