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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner records the commands it is asked to run. handle, when set,
// decides the outcome of each command.
type fakeRunner struct {
	calls  [][]string
	handle func(args []string) error
}

func (r *fakeRunner) run(j *execJob) error {
	args := append([]string{j.bin}, j.args...)
	r.calls = append(r.calls, args)
	if r.handle == nil {
		return nil
	}
	return r.handle(args)
}

func (r *fakeRunner) callsWith(word string) [][]string {
	var ret [][]string
	for _, call := range r.calls {
		for _, arg := range call {
			if arg == word {
				ret = append(ret, call)
				break
			}
		}
	}
	return ret
}

func hasArg(args []string, word string) bool {
	for _, arg := range args {
		if arg == word {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, f, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(f), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// newTestReleaser creates a releaser on a temp project directory. When
// release is not empty, it is written as the release file.
func newTestReleaser(t *testing.T, release string) (
	*Releaser, *fakeRunner, string,
) {
	t.Helper()
	dir := t.TempDir()
	if release != "" {
		writeFile(t, filepath.Join(dir, DefaultReleaseFile), release)
	}
	r := NewReleaser(&Config{Root: dir})
	fake := new(fakeRunner)
	r.env.runner = fake
	return r, fake, dir
}

// sdistMaker returns a handler that writes distribution files into the
// dist directory when setup.py builds distributions. The file content is
// the command line, so a rebuild by a different command rewrites it.
func sdistMaker(dir string) func(args []string) error {
	return func(args []string) error {
		content := []byte(strings.Join(args, " "))
		if hasArg(args, "sdist") {
			f := filepath.Join(dir, distDir, "prismatic-0.1.tar.gz")
			if err := os.MkdirAll(filepath.Dir(f), 0700); err != nil {
				return err
			}
			if err := os.WriteFile(f, content, 0600); err != nil {
				return err
			}
		}
		if hasArg(args, "bdist_wheel") {
			f := filepath.Join(
				dir, distDir, "prismatic-0.1-py3-none-any.whl",
			)
			if err := os.WriteFile(f, content, 0600); err != nil {
				return err
			}
		}
		return nil
	}
}

func joinCalls(calls [][]string) []string {
	var ret []string
	for _, c := range calls {
		ret = append(ret, strings.Join(c, " "))
	}
	return ret
}

func artifactNames(list []*Artifact) []string {
	var names []string
	for _, a := range list {
		names = append(names, a.Name)
	}
	return names
}
