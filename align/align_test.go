// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import "testing"

func TestStrandProject(t *testing.T) {
	for _, test := range []struct {
		start, end, srcLen int
		strand             Strand
		wantStart, wantEnd int
	}{
		{10, 20, 100, Plus, 10, 20},
		{10, 20, 100, Minus, 80, 90},
		{0, 100, 100, Minus, 0, 100},
	} {
		gs, ge := StrandProject(test.start, test.end, test.srcLen, test.strand)
		if gs != test.wantStart || ge != test.wantEnd {
			t.Errorf("StrandProject(%d,%d,%d,%c) = (%d,%d), want (%d,%d)",
				test.start, test.end, test.srcLen, test.strand, gs, ge, test.wantStart, test.wantEnd)
		}
	}
}

func TestParseStrand(t *testing.T) {
	if s, err := ParseStrand("+"); err != nil || s != Plus {
		t.Errorf("ParseStrand(+) = %v, %v", s, err)
	}
	if s, err := ParseStrand("-1"); err != nil || s != Minus {
		t.Errorf("ParseStrand(-1) = %v, %v", s, err)
	}
	if _, err := ParseStrand("x"); err == nil {
		t.Error("ParseStrand(x): expected error")
	}
}
