// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pyrel

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"shanhu.io/misc/osutil"
)

// Environment variables always copied into subprocesses.
var baseEnv = []string{
	"HOME",
	"PATH",
	"SSH_AUTH_SOCK",
	"VIRTUAL_ENV",
	"PYTHONPATH",
	"TWINE_USERNAME",
	"TWINE_PASSWORD",
	"TWINE_REPOSITORY_URL",
}

type execJob struct {
	dir  string
	bin  string
	args []string
	env  []string // names of the env vars to copy
	out  io.Writer
}

func (j *execJob) command() *exec.Cmd {
	cmd := exec.Command(j.bin, j.args...)
	cmd.Dir = j.dir
	if j.out == nil {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = j.out
	}
	cmd.Stderr = os.Stderr
	cmd.Env = []string{}
	for _, k := range baseEnv {
		osutil.CmdCopyEnv(cmd, k)
	}
	for _, k := range j.env {
		osutil.CmdCopyEnv(cmd, k)
	}
	return cmd
}

// runner runs an external command to completion.
type runner interface {
	run(j *execJob) error
}

type execRunner struct{}

func (execRunner) run(j *execJob) error { return j.command().Run() }

// exitCode returns the process exit code carried by err. Errors that are
// not process exits map to 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	var codeErr *exitError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	return 1
}
