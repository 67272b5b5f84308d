// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paf

import "testing"

func TestParseAndString(t *testing.T) {
	line := "qry.chr1\t1000\t20\t25\t+\tref.chr1\t1000\t10\t15\t5\t5\t255\tcg:Z:4=1I1="
	rec, err := Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	if rec.QName != "qry.chr1" || rec.TName != "ref.chr1" {
		t.Errorf("unexpected record: %+v", rec)
	}
	c, err := rec.Cigar()
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "4=1I1=" {
		t.Errorf("Cigar = %q, want 4=1I1=", c.String())
	}
	if got := rec.String(); got != line {
		t.Errorf("round trip = %q, want %q", got, line)
	}
}

func TestMissingCigar(t *testing.T) {
	rec, err := Parse("q\t10\t0\t10\t+\tt\t10\t0\t10\t10\t10\t60")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Cigar(); err != ErrMissingCigar {
		t.Errorf("Cigar() error = %v, want ErrMissingCigar", err)
	}
}

func TestParseTooFewFields(t *testing.T) {
	if _, err := Parse("a\tb\tc"); err == nil {
		t.Error("expected error for too few fields")
	}
}
