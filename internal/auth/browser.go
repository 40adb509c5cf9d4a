package auth

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser launches the user's default browser on url so the device-flow
// approval page opens without copy-pasting. The launcher is started and not
// waited on; the token poll runs while the user approves. A failure here is
// a degraded mode, the caller falls back to printing the URL.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	return nil
}

// browserCommand picks the platform launcher for url.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	default:
		return nil, fmt.Errorf("no known browser launcher for %s", goos)
	}
}
