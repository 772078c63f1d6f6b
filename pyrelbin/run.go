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
	"errors"
	"fmt"
	"log"
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
	"shanhu.io/pyrel"
	"shanhu.io/text/lexing"
)

func newReleaser(flags *flagutil.FlagSet, args []string) (
	*pyrel.Releaser, []string, error,
) {
	config := new(pyrel.Config)
	declareReleaseFlags(flags, config)
	args = flags.ParseArgs(args)

	r := pyrel.NewReleaser(config)
	if _, errs := r.ReadRelease(); errs != nil {
		lexing.FprintErrs(os.Stderr, errs, config.Root)
		return nil, nil, errcode.InvalidArgf(
			"read release got %d errors", len(errs),
		)
	}
	return r, args, nil
}

// exitOnStepErr exits the process with the exit code of the failing step,
// so that the caller sees the code of the underlying tool.
func exitOnStepErr(err error) error {
	var stepErr *pyrel.StepError
	if errors.As(err, &stepErr) {
		log.Print(stepErr)
		os.Exit(stepErr.Code)
	}
	return err
}

func targetCmd(target string) func(args []string) error {
	return func(args []string) error {
		r, args, err := newReleaser(cmdFlags.New(), args)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			return errcode.InvalidArgf("%s takes no arguments", target)
		}
		res, err := r.Run(target)
		if err != nil {
			return exitOnStepErr(err)
		}
		log.Printf("%s %s", target, res.State)
		return nil
	}
}

func cmdPlan(args []string) error {
	r, args, err := newReleaser(cmdFlags.New(), args)
	if err != nil {
		return err
	}
	target := pyrel.TargetRelease
	if len(args) == 1 {
		target = args[0]
	} else if len(args) > 1 {
		return errcode.InvalidArgf("plan takes at most one target")
	}

	steps, err := r.Plan(target)
	if err != nil {
		return err
	}
	for i, s := range steps {
		fmt.Printf("%d. %s\n", i+1, s)
	}
	return nil
}
