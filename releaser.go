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
	"log"
	"time"

	"github.com/google/uuid"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Config provides the configuration to start a releaser.
type Config struct {
	Root    string // Project root directory
	Release string // Release file, relative to Root
	Python  string // Python interpreter
	History string // History database, relative to Root; empty disables
}

// DefaultReleaseFile is the default name of the release file.
const DefaultReleaseFile = "RELEASE.pyrel"

// Releaser tests and releases a python package.
type Releaser struct {
	env     *env
	config  *Config
	release *Release
	now     func() time.Time
}

// NewReleaser creates a new releaser.
func NewReleaser(config *Config) *Releaser {
	python := config.Python
	if python == "" {
		python = "python"
	}
	root := config.Root
	if root == "" {
		root = "."
	}
	env := &env{
		rootDir: root,
		python:  python,
		runner:  execRunner{},
	}
	return &Releaser{
		env:    env,
		config: config,
		now:    time.Now,
	}
}

func (r *Releaser) releaseFile() string {
	f := r.config.Release
	if f == "" {
		f = DefaultReleaseFile
	}
	return r.env.root(f)
}

// ReadRelease reads and checks the release file.
func (r *Releaser) ReadRelease() (*Release, []*lexing.Error) {
	if r.release != nil {
		return r.release, nil
	}

	rel, err := ReadRelease(r.env.root(), r.releaseFile())
	if err != nil {
		err = errcode.Annotate(err, "read release file")
		return nil, lexing.SingleErr(err)
	}
	if errs := rel.check(); errs != nil {
		return nil, errs
	}
	r.release = rel
	r.env.release = rel
	return rel, nil
}

func (r *Releaser) mustRelease() (*Release, error) {
	rel, errs := r.ReadRelease()
	if errs != nil {
		return nil, errcode.InvalidArgf(
			"read release got %d errors, first: %s", len(errs), errs[0].Err,
		)
	}
	return rel, nil
}

// Plan returns the names of the steps that the target runs, in order.
func (r *Releaser) Plan(target string) ([]string, error) {
	rel, err := r.mustRelease()
	if err != nil {
		return nil, err
	}
	steps, err := planSteps(rel, target)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names, nil
}

// Run runs a target. When a step fails, the returned error is a
// *StepError, and the result records the failing step.
func (r *Releaser) Run(target string) (*RunResult, error) {
	rel, err := r.mustRelease()
	if err != nil {
		return nil, err
	}
	steps, err := planSteps(rel, target)
	if err != nil {
		return nil, err
	}

	res := &RunResult{
		ID:     uuid.NewString(),
		Target: target,
		Start:  r.now(),
	}
	runErr := runSteps(r.env, res, steps)
	res.End = r.now()

	if r.config.History != "" {
		if err := r.record(res); err != nil {
			log.Printf("record run %s: %s", res.ID, err)
		}
	}
	if runErr != nil {
		return res, runErr
	}
	return res, nil
}

func (r *Releaser) record(res *RunResult) error {
	l, err := openLedger(r.env.root(r.config.History))
	if err != nil {
		return err
	}
	defer l.Close()
	return l.record(res)
}

// History returns at most n recent runs, newest first.
func (r *Releaser) History(n int) ([]*RunResult, error) {
	if r.config.History == "" {
		return nil, errcode.InvalidArgf("history is disabled")
	}
	if n <= 0 {
		return nil, errcode.InvalidArgf("invalid number of runs: %d", n)
	}
	l, err := openLedger(r.env.root(r.config.History))
	if err != nil {
		return nil, err
	}
	defer l.Close()
	return l.recent(n)
}
