// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import "github.com/wgatools/wga/paf"

// FilterThresholds names the minimums a PAF record must meet to pass
// Filter, per §4.8 ("drop records below thresholds: block_length,
// query_size, align_size").
type FilterThresholds struct {
	MinBlockLen  int
	MinQuerySize int
	MinAlignSize int // minimum target span (TEnd - TStart)
}

// Keep reports whether rec meets every configured threshold. A zero
// threshold field imposes no minimum.
func Keep(rec *paf.Record, t FilterThresholds) bool {
	if t.MinBlockLen > 0 && rec.BlockLen < t.MinBlockLen {
		return false
	}
	if t.MinQuerySize > 0 && rec.QLen < t.MinQuerySize {
		return false
	}
	if t.MinAlignSize > 0 && rec.TEnd-rec.TStart < t.MinAlignSize {
		return false
	}
	return true
}
