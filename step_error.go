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
	"fmt"
)

// StepError is returned when a step of a release pipeline fails. Code is
// the exit code of the failing process.
type StepError struct {
	Step string
	Code int
	Err  error
}

func newStepError(step string, err error) *StepError {
	return &StepError{
		Step: step,
		Code: exitCode(err),
		Err:  err,
	}
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed (exit %d): %s", e.Step, e.Code, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
