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

	"shanhu.io/misc/errcode"
)

// Targets that can be invoked.
const (
	TargetTest     = "test"
	TargetClear    = "clear"
	TargetRegister = "pypi-register"
	TargetBuild    = "pypi-build"
	TargetUpload   = "pypi-upload"
	TargetRelease  = "pypi"
)

// Targets lists all targets in the order they are usually invoked.
var Targets = []string{
	TargetTest,
	TargetClear,
	TargetRegister,
	TargetBuild,
	TargetUpload,
	TargetRelease,
}

// Pipeline states. A step's name is also the state while it runs.
const (
	StateStart  = "START"
	StateDone   = "DONE"
	StateFailed = "FAILED"
)

// Step names.
const (
	StepTest     = "TEST"
	StepClear    = "CLEAR"
	StepRegister = "REGISTER"
	StepBuild    = "BUILD"
	StepUpload   = "UPLOAD"
)

type step struct {
	name string
	run  func(env *env, res *RunResult) error
}

func simpleStep(name string, f func(env *env) error) *step {
	return &step{
		name: name,
		run:  func(env *env, _ *RunResult) error { return f(env) },
	}
}

var (
	stepTest     = simpleStep(StepTest, runTest)
	stepClear    = simpleStep(StepClear, runClear)
	stepRegister = simpleStep(StepRegister, runRegister)
	stepBuild    = simpleStep(StepBuild, runBuild)
	stepUpload   = &step{
		name: StepUpload,
		run: func(env *env, res *RunResult) error {
			done, err := uploadArtifacts(env)
			res.Uploaded = done
			return err
		},
	}
)

func planSteps(r *Release, target string) ([]*step, error) {
	switch target {
	case TargetTest:
		return []*step{stepTest}, nil
	case TargetClear:
		return []*step{stepClear}, nil
	case TargetRegister:
		return []*step{stepRegister}, nil
	case TargetBuild:
		return []*step{stepBuild}, nil
	case TargetUpload:
		return []*step{stepUpload}, nil
	case TargetRelease:
		steps := []*step{stepTest}
		if r.ClearFirst() {
			steps = append(steps, stepClear)
		}
		return append(steps, stepRegister, stepBuild, stepUpload), nil
	}
	return nil, errcode.NotFoundf("target %q not found", target)
}

// RunResult is the outcome of running a target.
type RunResult struct {
	ID         string
	Target     string
	State      string
	Steps      []string // Steps that were started.
	FailedStep string   `json:",omitempty"`
	ExitCode   int
	Uploaded   []*Artifact `json:",omitempty"`
	Start      time.Time
	End        time.Time
}

// runSteps runs the steps in order and stops at the first failure. The
// returned error, if any, is a *StepError.
func runSteps(env *env, res *RunResult, steps []*step) error {
	res.State = StateStart
	for _, s := range steps {
		log.Printf("%s %s", res.Target, s.name)
		res.State = s.name
		res.Steps = append(res.Steps, s.name)
		if err := s.run(env, res); err != nil {
			stepErr := newStepError(s.name, err)
			res.State = StateFailed
			res.FailedStep = s.name
			res.ExitCode = stepErr.Code
			return stepErr
		}
	}
	res.State = StateDone
	return nil
}
