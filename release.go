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
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonx"
	"shanhu.io/misc/osutil"
	"shanhu.io/text/lexing"
)

// Uploaders supported in release files.
const (
	UploaderTwine = "twine"
	UploaderSetup = "setup"
)

const defaultIndex = "pypi"

// Release is the structure of the RELEASE.pyrel file. It specifies how a
// python package is tested and released.
type Release struct {
	// Name of the python package.
	Package string

	// Package index to register and upload to. Default is "pypi".
	Index string `json:",omitempty"`

	// Directory of the tests, relative to the project root. Default is
	// the package name.
	TestDir string `json:",omitempty"`

	// Test command line. Default runs unittest discovery in TestDir.
	Test string `json:",omitempty"`

	// Docker image to run the tests in. Tests run on the host when empty.
	TestImage string `json:",omitempty"`

	// If the release clears build outputs before building. Default true.
	Clear *bool `json:",omitempty"`

	// Also builds a wheel.
	Wheel bool `json:",omitempty"`

	// Upload tool, "twine" or "setup". Default is "twine".
	Uploader string `json:",omitempty"`

	// Extra environment variables passed into every command.
	PassEnv []string `json:",omitempty"`
}

// ReadRelease reads in a release file of the project in root. When the
// file does not exist, it returns the default release, with the package
// named after the root directory.
func ReadRelease(root, f string) (*Release, error) {
	r := new(Release)
	ok, err := osutil.IsRegular(f)
	if err != nil {
		return nil, errcode.Annotate(err, "check release file")
	}
	if ok {
		if err := jsonx.ReadFile(f, r); err != nil {
			return nil, err
		}
	}
	if !ok {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errcode.Annotate(err, "get project dir")
		}
		r.Package = filepath.Base(abs)
	}
	r.fillDefaults()
	return r, nil
}

func (r *Release) fillDefaults() {
	if r.Index == "" {
		r.Index = defaultIndex
	}
	if r.TestDir == "" {
		r.TestDir = r.Package
	}
	if r.Uploader == "" {
		r.Uploader = UploaderTwine
	}
}

// ClearFirst tells if the release pipeline clears build outputs first.
func (r *Release) ClearFirst() bool {
	if r.Clear == nil {
		return true
	}
	return *r.Clear
}

func (r *Release) testArgs(python string) ([]string, error) {
	if r.Test == "" {
		return []string{
			python, "-m", "unittest", "discover",
			"-s", r.TestDir, "-p", "*_test.py",
		}, nil
	}
	args, err := shellquote.Split(r.Test)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errcode.InvalidArgf("test command is empty")
	}
	return args, nil
}

func (r *Release) check() []*lexing.Error {
	errList := lexing.NewErrorList()
	if r.Package == "" {
		errList.Errorf(nil, "package name is empty")
	}
	switch r.Uploader {
	case UploaderTwine, UploaderSetup:
	default:
		errList.Errorf(nil, "unknown uploader %q", r.Uploader)
	}
	if _, err := r.testArgs("python"); err != nil {
		errList.Errorf(nil, "bad test command %q: %s", r.Test, err)
	}
	for _, k := range r.PassEnv {
		if k == "" {
			errList.Errorf(nil, "empty name in pass env")
		}
	}
	return errList.Errs()
}
