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
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/idutil"
)

func (e *env) runPython(args ...string) error {
	j := &execJob{
		dir:  e.root(),
		bin:  e.python,
		args: args,
		env:  e.release.PassEnv,
		out:  e.log,
	}
	return e.runner.run(j)
}

func runTest(env *env) error {
	args, err := env.release.testArgs(env.python)
	if err != nil {
		return errcode.Annotate(err, "test command")
	}
	if img := env.release.TestImage; img != "" {
		return runTestInDocker(env, img, args)
	}
	j := &execJob{
		dir:  env.root(),
		bin:  args[0],
		args: args[1:],
		env:  env.release.PassEnv,
		out:  env.log,
	}
	return env.runner.run(j)
}

func runClear(env *env) error {
	for _, dir := range []string{env.build(), env.dist()} {
		if err := os.RemoveAll(dir); err != nil {
			return errcode.Annotatef(err, "remove %q", dir)
		}
	}
	return nil
}

func runRegister(env *env) error {
	return env.runPython("setup.py", "register", "-r", env.release.Index)
}

func distCommands(r *Release) []string {
	cmds := []string{"sdist"}
	if r.Wheel {
		cmds = append(cmds, "bdist_wheel")
	}
	return cmds
}

func runBuild(env *env) error {
	args := append([]string{"setup.py"}, distCommands(env.release)...)
	if err := env.runPython(args...); err != nil {
		return err
	}
	list, err := listArtifacts(env)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errcode.NotFoundf("build produced no artifacts")
	}
	for _, a := range list {
		log.Printf("built %s (%d bytes)", a.Name, a.Size)
	}
	return nil
}

func newUploader(env *env) uploader {
	if env.release.Uploader == UploaderSetup {
		return &setupUploader{env: env}
	}
	return &twineUploader{env: env}
}

// uploadArtifacts uploads all artifacts currently in the dist directory.
// It returns the artifacts that were uploaded.
func uploadArtifacts(env *env) ([]*Artifact, error) {
	list, err := listArtifacts(env)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errcode.NotFoundf("no artifacts in %q", distDir)
	}

	up := newUploader(env)
	done, err := up.upload(list)
	for _, a := range done {
		log.Printf("uploaded %s [%s]", a.Name, idutil.Short(a.SHA256))
	}
	return done, err
}
