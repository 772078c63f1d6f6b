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
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/virgo/dock"
)

const contSrcRoot = "/src"

func runTestInDocker(env *env, image string, args []string) error {
	absRoot, err := filepath.Abs(env.root())
	if err != nil {
		return errcode.Annotate(err, "get absolute root dir")
	}

	envs := make(map[string]string)
	for _, k := range env.release.PassEnv {
		if v, ok := os.LookupEnv(k); ok {
			envs[k] = v
		}
	}

	contConfig := &dock.ContConfig{
		Cmd:     args,
		WorkDir: contSrcRoot,
		Env:     envs,
		Mounts: []*dock.ContMount{{
			Host: absRoot,
			Cont: contSrcRoot,
		}},
	}

	log.Printf("test in %s", image)
	cont, err := dock.CreateCont(env.docker(), image, contConfig)
	if err != nil {
		return errcode.Annotate(err, "create container")
	}
	defer cont.Drop()

	if err := cont.Start(); err != nil {
		return errcode.Annotate(err, "start container")
	}
	if err := cont.FollowLogs(env.out()); err != nil {
		return errcode.Annotate(err, "stream logs")
	}
	return execError(cont.Wait(dock.NotRunning))
}
