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
	"io"
	"os"
	"path"
	"path/filepath"

	"shanhu.io/virgo/dock"
)

const (
	buildDir = "build"
	distDir  = "dist"
)

type env struct {
	rootDir string
	python  string
	release *Release

	runner runner
	dock   *dock.Client
	log    io.Writer
}

func (e *env) root(ps ...string) string {
	if len(ps) == 0 {
		return e.rootDir
	}
	p := path.Join(ps...)
	return filepath.Join(e.rootDir, filepath.FromSlash(p))
}

func (e *env) dist(ps ...string) string {
	return e.root(append([]string{distDir}, ps...)...)
}

func (e *env) build() string { return e.root(buildDir) }

func (e *env) docker() *dock.Client {
	if e.dock == nil {
		e.dock = dock.NewUnixClient("")
	}
	return e.dock
}

func (e *env) out() io.Writer {
	if e.log == nil {
		return os.Stdout
	}
	return e.log
}
