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

package pyrelbin

import (
	"os"
	"strings"

	"shanhu.io/misc/subcmd"
	"shanhu.io/pyrel"
)

func cmd() *subcmd.List {
	c := subcmd.New()
	c.Add(pyrel.TargetTest, "runs the test suite", targetCmd(pyrel.TargetTest))
	c.Add(pyrel.TargetClear, "removes build outputs", targetCmd(pyrel.TargetClear))
	c.Add(
		pyrel.TargetRegister, "registers package metadata",
		targetCmd(pyrel.TargetRegister),
	)
	c.Add(
		pyrel.TargetBuild, "builds distributions",
		targetCmd(pyrel.TargetBuild),
	)
	c.Add(
		pyrel.TargetUpload, "uploads distributions",
		targetCmd(pyrel.TargetUpload),
	)
	c.Add(pyrel.TargetRelease, "full release", targetCmd(pyrel.TargetRelease))
	c.Add("plan", "prints the steps of a target", cmdPlan)
	c.Add("history", "prints recent runs", cmdHistory)
	return c
}

// withDefaultCmd inserts the test subcommand when args name no
// subcommand, including when they start with flags.
func withDefaultCmd(args []string) []string {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return args
	}
	ret := []string{args[0], pyrel.TargetTest}
	return append(ret, args[1:]...)
}

// Main is the entrance of the pyrel command. Without a subcommand, it
// runs the tests.
func Main() {
	os.Args = withDefaultCmd(os.Args)
	cmd().Main()
}
