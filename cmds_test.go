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
	"bytes"
	"errors"
	"os/exec"
	"runtime"
	"testing"
)

func TestExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	err := execRunner{}.run(&execJob{bin: "sh", args: []string{"-c", "exit 7"}})
	if got := exitCode(err); got != 7 {
		t.Errorf("got exit code %d, want 7 (%v)", got, err)
	}

	if got := exitCode(nil); got != 0 {
		t.Errorf("got exit code %d for nil", got)
	}
	if got := exitCode(newExitError(9)); got != 9 {
		t.Errorf("got exit code %d, want 9", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Errorf("got exit code %d, want 1", got)
	}
	if got := exitCode(exec.ErrNotFound); got != 1 {
		t.Errorf("got exit code %d, want 1", got)
	}
}

func TestExecJobOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	out := new(bytes.Buffer)
	j := &execJob{
		dir:  t.TempDir(),
		bin:  "sh",
		args: []string{"-c", "echo hello"},
		out:  out,
	}
	if err := (execRunner{}).run(j); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hello\n" {
		t.Errorf("got output %q", got)
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	inner := newExitError(3)
	err := newStepError(StepUpload, inner)
	if err.Code != 3 {
		t.Errorf("got code %d", err.Code)
	}
	if !errors.Is(err, inner) {
		t.Error("step error does not wrap the cause")
	}
}
