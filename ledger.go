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
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver
	"shanhu.io/misc/errcode"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	target TEXT NOT NULL,
	state TEXT NOT NULL,
	steps TEXT NOT NULL,
	failed_step TEXT NOT NULL,
	exit_code INTEGER NOT NULL,
	start_ns INTEGER NOT NULL,
	end_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_start ON runs(start_ns);

CREATE TABLE IF NOT EXISTS uploads (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	size INTEGER NOT NULL,
	sha256 TEXT NOT NULL,
	PRIMARY KEY (run_id, name)
);
`

// ledger keeps the history of release runs in a sqlite database.
type ledger struct {
	db *sql.DB
}

func openLedger(f string) (*ledger, error) {
	if err := os.MkdirAll(filepath.Dir(f), 0700); err != nil {
		return nil, errcode.Annotate(err, "make ledger dir")
	}
	db, err := sql.Open("sqlite", f)
	if err != nil {
		return nil, errcode.Annotate(err, "open ledger")
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, errcode.Annotate(err, "create ledger tables")
	}
	return &ledger{db: db}, nil
}

func (l *ledger) Close() error { return l.db.Close() }

func (l *ledger) record(res *RunResult) error {
	tx, err := l.db.Begin()
	if err != nil {
		return errcode.Annotate(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs
		(id, target, state, steps, failed_step, exit_code, start_ns, end_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Target, res.State, strings.Join(res.Steps, ","),
		res.FailedStep, res.ExitCode,
		res.Start.UnixNano(), res.End.UnixNano(),
	); err != nil {
		return errcode.Annotate(err, "insert run")
	}

	for _, a := range res.Uploaded {
		if _, err := tx.Exec(
			`INSERT INTO uploads (run_id, name, size, sha256)
			VALUES (?, ?, ?, ?)`,
			res.ID, a.Name, a.Size, a.SHA256,
		); err != nil {
			return errcode.Annotatef(err, "insert upload %q", a.Name)
		}
	}
	return tx.Commit()
}

func (l *ledger) uploads(id string) ([]*Artifact, error) {
	rows, err := l.db.Query(
		`SELECT name, size, sha256 FROM uploads
		WHERE run_id = ? ORDER BY name`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Artifact
	for rows.Next() {
		a := new(Artifact)
		if err := rows.Scan(&a.Name, &a.Size, &a.SHA256); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// recent returns at most n runs, newest first.
func (l *ledger) recent(n int) ([]*RunResult, error) {
	rows, err := l.db.Query(
		`SELECT id, target, state, steps, failed_step, exit_code,
			start_ns, end_ns
		FROM runs ORDER BY start_ns DESC, rowid DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, errcode.Annotate(err, "query runs")
	}
	defer rows.Close()

	var runs []*RunResult
	for rows.Next() {
		res := new(RunResult)
		var steps string
		var start, end int64
		if err := rows.Scan(
			&res.ID, &res.Target, &res.State, &steps,
			&res.FailedStep, &res.ExitCode, &start, &end,
		); err != nil {
			return nil, errcode.Annotate(err, "scan run")
		}
		if steps != "" {
			res.Steps = strings.Split(steps, ",")
		}
		res.Start = time.Unix(0, start)
		res.End = time.Unix(0, end)
		runs = append(runs, res)
	}
	if err := rows.Err(); err != nil {
		return nil, errcode.Annotate(err, "iterate runs")
	}
	rows.Close()

	for _, res := range runs {
		list, err := l.uploads(res.ID)
		if err != nil {
			return nil, errcode.Annotatef(err, "query uploads of %s", res.ID)
		}
		res.Uploaded = list
	}
	return runs, nil
}
