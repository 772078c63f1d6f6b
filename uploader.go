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
	"path"

	"shanhu.io/misc/errcode"
)

type uploader interface {
	// upload uploads the artifacts in order. It returns the ones
	// successfully uploaded before the first failure.
	upload(list []*Artifact) ([]*Artifact, error)
}

// twineUploader uploads each artifact with a separate twine call, so a
// failure stops the remaining uploads.
type twineUploader struct {
	env *env
}

func (u *twineUploader) upload(list []*Artifact) ([]*Artifact, error) {
	var done []*Artifact
	for _, a := range list {
		j := &execJob{
			dir: u.env.root(),
			bin: "twine",
			args: []string{
				"upload", "-r", u.env.release.Index,
				path.Join(distDir, a.Name),
			},
			env: u.env.release.PassEnv,
			out: u.env.log,
		}
		if err := u.env.runner.run(j); err != nil {
			return done, err
		}
		done = append(done, a)
	}
	return done, nil
}

// setupUploader uses the uploader built into setup.py. The setup.py
// upload command only uploads what is built in the same call, so the
// distributions are rebuilt, and only the files written by that call are
// reported as uploaded.
type setupUploader struct {
	env *env
}

func (u *setupUploader) upload(_ []*Artifact) ([]*Artifact, error) {
	before, err := distStamps(u.env)
	if err != nil {
		return nil, err
	}

	args := []string{"setup.py"}
	args = append(args, distCommands(u.env.release)...)
	args = append(args, "upload", "-r", u.env.release.Index)
	if err := u.env.runPython(args...); err != nil {
		return nil, err
	}

	built, err := changedArtifacts(u.env, before)
	if err != nil {
		return nil, errcode.Annotate(err, "list rebuilt artifacts")
	}
	if len(built) == 0 {
		return nil, errcode.Internalf("setup.py upload built no artifacts")
	}
	return built, nil
}
