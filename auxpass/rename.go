// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

// ErrAlreadyPrefixed is returned by RenamePAF/RenameMAF when a name
// already carries the requested prefix. Applying `rename` twice with
// the same prefixes is rejected rather than double-prefixing (§8 open
// question on rename idempotence): a silently doubled prefix is a
// harder mistake to notice downstream than a rejected rerun.
var ErrAlreadyPrefixed = errors.New("auxpass: name already carries the requested prefix")

// RenamePAF prepends targetPrefix to rec.TName and queryPrefix to
// rec.QName, in place.
func RenamePAF(rec *paf.Record, targetPrefix, queryPrefix string) error {
	tName, err := prefixed(rec.TName, targetPrefix)
	if err != nil {
		return err
	}
	qName, err := prefixed(rec.QName, queryPrefix)
	if err != nil {
		return err
	}
	rec.TName, rec.QName = tName, qName
	return nil
}

// RenameMAF prepends targetPrefix to the first line's name and
// queryPrefix to every other line's name, in place, treating the first
// line as the target and the rest as queries (the same pairwise
// convention the conversion kernel uses).
func RenameMAF(b *maf.Block, targetPrefix, queryPrefix string) error {
	if len(b.Lines) == 0 {
		return nil
	}
	name, err := prefixed(b.Lines[0].Name, targetPrefix)
	if err != nil {
		return err
	}
	b.Lines[0].Name = name
	for i := 1; i < len(b.Lines); i++ {
		name, err := prefixed(b.Lines[i].Name, queryPrefix)
		if err != nil {
			return err
		}
		b.Lines[i].Name = name
	}
	return nil
}

func prefixed(name, prefix string) (string, error) {
	if prefix == "" {
		return name, nil
	}
	if strings.HasPrefix(name, prefix) {
		return "", fmt.Errorf("%w: %q already has prefix %q", ErrAlreadyPrefixed, name, prefix)
	}
	return prefix + name, nil
}
