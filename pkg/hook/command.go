package hook

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/tauraamui/xerror"
)

// Runner is invoked once per completed snapshot save.
type Runner interface {
	Run(path string) error
}

// Command runs its template through the platform shell, with the saved
// snapshot's path appended as the final argument.
type Command struct {
	Template string
}

func (c Command) Enabled() bool {
	return len(strings.TrimSpace(c.Template)) > 0
}

func (c Command) Run(path string) error {
	if !c.Enabled() {
		return nil
	}

	name, args := shellArgs(runtime.GOOS, c.Template, path)
	out, err := runCommand(name, args...)
	if err != nil {
		return xerror.Errorf("post save command [%s] failed: %w: %s", c.Template, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func shellArgs(goos, template, path string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/C", template + ` "` + path + `"`}
	}
	// the path is passed positionally so the shell never re-parses it
	return "/bin/sh", []string{"-c", template + ` "$1"`, "sh", path}
}

var runCommand = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
