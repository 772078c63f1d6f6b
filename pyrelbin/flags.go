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
	"shanhu.io/misc/flagutil"
	"shanhu.io/pyrel"
)

var cmdFlags = flagutil.NewFactory("pyrel")

func declareReleaseFlags(flags *flagutil.FlagSet, c *pyrel.Config) {
	flags.StringVar(&c.Root, "root", ".", "project root directory")
	flags.StringVar(
		&c.Release, "release", pyrel.DefaultReleaseFile,
		"release file, relative to the project root",
	)
	flags.StringVar(&c.Python, "python", "python", "python interpreter")
	flags.StringVar(
		&c.History, "history", ".pyrel/history.db",
		"history database, relative to the project root; empty disables",
	)
}
