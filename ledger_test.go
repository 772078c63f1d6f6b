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
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLedgerRecordsRuns(t *testing.T) {
	r, fake, dir := newTestReleaser(t, wheelRelease)
	r.config.History = ".pyrel/history.db"

	clock := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	fake.handle = func(args []string) error {
		if hasArg(args, "register") {
			return &exitError{code: 4}
		}
		return nil
	}
	failed, err := r.Run(TargetRelease)
	if err == nil {
		t.Fatal("release should fail on register")
	}

	fake.handle = sdistMaker(dir)
	done, err := r.Run(TargetRelease)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := r.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("want 2 runs, got %d", len(runs))
	}

	latest, first := runs[0], runs[1]
	if latest.ID != done.ID || first.ID != failed.ID {
		t.Errorf("runs out of order: %s, %s", latest.ID, first.ID)
	}
	if latest.State != StateDone {
		t.Errorf("got latest state %q", latest.State)
	}
	if first.State != StateFailed || first.FailedStep != StepRegister {
		t.Errorf(
			"got first state %q failed at %q",
			first.State, first.FailedStep,
		)
	}
	if first.ExitCode != 4 {
		t.Errorf("got exit code %d, want 4", first.ExitCode)
	}
	if !first.Start.Equal(failed.Start) {
		t.Errorf("got start %s, want %s", first.Start, failed.Start)
	}
	if diff := cmp.Diff(failed.Steps, first.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(done.Uploaded, latest.Uploaded); diff != "" {
		t.Errorf("uploads mismatch (-want +got):\n%s", diff)
	}
	if len(first.Uploaded) != 0 {
		t.Errorf("failed run has uploads: %v", first.Uploaded)
	}

	limited, err := r.History(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != done.ID {
		t.Errorf("history limit returned %d runs", len(limited))
	}

	if !isDir(t, filepath.Join(dir, ".pyrel")) {
		t.Error("ledger directory not created")
	}
}

func TestHistoryDisabled(t *testing.T) {
	r, _, _ := newTestReleaser(t, "")
	if _, err := r.History(10); err == nil {
		t.Error("history with no database succeeded")
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	r, _, _ := newTestReleaser(t, "")
	r.config.History = ".pyrel/history.db"
	for _, n := range []int{0, -1} {
		if _, err := r.History(n); err == nil {
			t.Errorf("history of %d runs succeeded", n)
		}
	}
}
