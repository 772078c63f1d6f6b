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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/strutil"
)

// Artifact is a distribution file in the dist directory.
type Artifact struct {
	Name   string
	Size   int64
	SHA256 string
}

func fileSHA256(f string) (string, error) {
	file, err := os.Open(f)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// listArtifacts lists the regular files directly under the dist
// directory, sorted by name. A missing dist directory has no artifacts.
func listArtifacts(env *env) ([]*Artifact, error) {
	entries, err := os.ReadDir(env.dist())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errcode.Annotate(err, "read dist dir")
	}

	names := make(map[string]bool)
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names[entry.Name()] = true
		}
	}

	var list []*Artifact
	for _, name := range strutil.SortedList(names) {
		f := env.dist(name)
		info, err := os.Lstat(f)
		if err != nil {
			return nil, errcode.Annotatef(err, "stat %q", name)
		}
		sum, err := fileSHA256(f)
		if err != nil {
			return nil, errcode.Annotatef(err, "checksum %q", name)
		}
		list = append(list, &Artifact{
			Name:   name,
			Size:   info.Size(),
			SHA256: sum,
		})
	}
	return list, nil
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// distStamps records the size and modification time of each regular file
// in the dist directory.
func distStamps(env *env) (map[string]fileStamp, error) {
	entries, err := os.ReadDir(env.dist())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errcode.Annotate(err, "read dist dir")
	}

	m := make(map[string]fileStamp)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, errcode.Annotatef(err, "stat %q", entry.Name())
		}
		m[entry.Name()] = fileStamp{
			size:    info.Size(),
			modTime: info.ModTime(),
		}
	}
	return m, nil
}

// changedArtifacts lists the artifacts that were created or rewritten
// since the before stamps were taken.
func changedArtifacts(env *env, before map[string]fileStamp) (
	[]*Artifact, error,
) {
	after, err := distStamps(env)
	if err != nil {
		return nil, err
	}
	list, err := listArtifacts(env)
	if err != nil {
		return nil, err
	}

	var changed []*Artifact
	for _, a := range list {
		old, ok := before[a.Name]
		cur := after[a.Name]
		if ok && old.size == cur.size && old.modTime.Equal(cur.modTime) {
			continue
		}
		changed = append(changed, a)
	}
	return changed, nil
}
