// Package browser hands URLs off to the desktop. The detail view uses
// it for GitHub links, live demos and gallery media, which a terminal
// cannot render itself.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches url in the user's default browser. The command is
// started and not waited on; the TUI keeps running.
func Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("no browser opener for %s", runtime.GOOS)
	}
	return cmd.Start()
}
