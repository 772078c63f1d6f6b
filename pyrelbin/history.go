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
	"fmt"
	"strings"
	"time"

	"shanhu.io/misc/idutil"
)

func cmdHistory(args []string) error {
	flags := cmdFlags.New()
	n := flags.Int("n", 10, "number of runs to print")
	r, _, err := newReleaser(flags, args)
	if err != nil {
		return err
	}

	runs, err := r.History(*n)
	if err != nil {
		return err
	}
	for _, run := range runs {
		line := fmt.Sprintf(
			"%s  %s  %-13s %-6s %s",
			idutil.Short(run.ID), run.Start.Format(time.RFC3339),
			run.Target, run.State, strings.Join(run.Steps, ">"),
		)
		if run.FailedStep != "" {
			line += fmt.Sprintf(
				"  (%s exit %d)", run.FailedStep, run.ExitCode,
			)
		}
		fmt.Println(line)
		for _, a := range run.Uploaded {
			fmt.Printf("    %s  %s\n", idutil.Short(a.SHA256), a.Name)
		}
	}
	return nil
}
