package hook

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matryer/is"
)

func overloadRunCommand(overload func(string, ...string) ([]byte, error)) func() {
	runCommandRef := runCommand
	runCommand = overload
	return func() { runCommand = runCommandRef }
}

func TestDisabledCommandDoesNothing(t *testing.T) {
	is := is.New(t)
	invoked := false
	reset := overloadRunCommand(func(string, ...string) ([]byte, error) {
		invoked = true
		return nil, nil
	})
	defer reset()

	is.NoErr(Command{Template: "  "}.Run("frame.pgm"))
	is.True(!invoked)
}

func TestCommandPassesPathAsFinalArgument(t *testing.T) {
	is := is.New(t)
	var passedName string
	var passedArgs []string
	reset := overloadRunCommand(func(name string, args ...string) ([]byte, error) {
		passedName, passedArgs = name, args
		return nil, nil
	})
	defer reset()

	is.NoErr(Command{Template: "upload --fast"}.Run("/captures/frame 1.pgm"))
	if runtime.GOOS == "windows" {
		is.Equal(passedName, "cmd")
		return
	}
	is.Equal(passedName, "/bin/sh")
	is.Equal(passedArgs, []string{"-c", `upload --fast "$1"`, "sh", "/captures/frame 1.pgm"})
}

func TestShellArgsForWindowsQuotesPath(t *testing.T) {
	is := is.New(t)
	name, args := shellArgs("windows", "notify.bat", `C:\frames\a.bmp`)
	is.Equal(name, "cmd")
	is.Equal(args, []string{"/C", `notify.bat "C:\frames\a.bmp"`})
}

func TestCommandFailureIsWrappedWithOutput(t *testing.T) {
	is := is.New(t)
	reset := overloadRunCommand(func(string, ...string) ([]byte, error) {
		return []byte("no such host\n"), errors.New("exit status 2")
	})
	defer reset()

	err := Command{Template: "upload"}.Run("frame.pgm")
	is.Equal(err.Error(), "post save command [upload] failed: exit status 2: no such host")
}

func TestCommandRunsThroughShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell round trip only exercised on unix")
	}
	is := is.New(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "saved.txt")

	is.NoErr(Command{Template: "echo >" + marker}.Run("frame.pgm"))

	content, err := os.ReadFile(marker)
	is.NoErr(err)
	is.Equal(string(content), "frame.pgm\n")
}
