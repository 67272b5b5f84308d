// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fai

import (
	"bytes"
	"encoding/csv"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestNewIndex(t *testing.T) {
	for i, test := range []struct {
		in  string
		idx Index
		err error
	}{
		{
			in:  ``,
			idx: Index{},
			err: nil,
		},
		{
			in: `>chr1
ACGTACGTAC
>chr2
TTGGCCAAGG
>chr3
GGCCTTAAGC
`,
			idx: Index{
				"chr1": Record{Name: "chr1", Length: 10, Start: 6, BasesPerLine: 10, BytesPerLine: 11},
				"chr2": Record{Name: "chr2", Length: 10, Start: 23, BasesPerLine: 10, BytesPerLine: 11},
				"chr3": Record{Name: "chr3", Length: 10, Start: 40, BasesPerLine: 10, BytesPerLine: 11},
			},
			err: nil,
		},
		{
			// A bare '>' with no name is rejected rather than silently
			// merging into whatever record follows it.
			in: `>chr1
ACGTACGTAC
>
TTGGCCAAGG
`,
			idx: nil,
			err: errors.New("fai: missing sequence name at 17"),
		},
		{
			in: `>chr1
ACGTACGTAC
>chr1
TTGGCCAAGG
`,
			idx: nil,
			err: errors.New("fai: duplicate sequence identifier chr1 at 17"),
		},
		{
			in: `>chr1
ACGTACGTAC
AC
ACGTACGTAC
>chr2
TTGGCCAAGG
`,
			idx: nil,
			err: errors.New("fai: unexpected short line before offset 20"),
		},
		{
			in: `>chr1
ACGTACGTAC
ACGTACGTACG
>chr2
TTGGCCAAGG
`,
			idx: nil,
			err: errors.New("fai: unexpected long line at offset 17"),
		},
	} {
		got, err := NewIndex(strings.NewReader(test.in))
		if !reflect.DeepEqual(err, test.err) {
			t.Errorf("test %d: unexpected error: got:%v want:%v", i, err, test.err)
		}
		if !reflect.DeepEqual(got, test.idx) {
			t.Errorf("test %d: unexpected result: got:%#v want:%#v", i, got, test.idx)
		}
	}
}

func TestReadFrom(t *testing.T) {
	for i, test := range []struct {
		in  string
		idx Index
		err error
	}{
		{
			in:  ``,
			idx: nil,
			err: nil,
		},
		{
			in: "chr1\t248956422\t6\t60\t61\n" +
				"chr2\t242193529\t4151173\t60\t61\n" +
				"chr3\t198295559\t8190653\t60\t61\n",
			idx: Index{
				"chr1": Record{Name: "chr1", Length: 248956422, Start: 6, BasesPerLine: 60, BytesPerLine: 61},
				"chr2": Record{Name: "chr2", Length: 242193529, Start: 4151173, BasesPerLine: 60, BytesPerLine: 61},
				"chr3": Record{Name: "chr3", Length: 198295559, Start: 8190653, BasesPerLine: 60, BytesPerLine: 61},
			},
			err: nil,
		},
		{
			in: "chr1\t248956422\t6\t60\t61\n" +
				"chr1\t248956422\t6\t60\t61\n",
			idx: nil,
			err: parseError(2, 0, ErrNonUnique),
		},
		{
			in: "chr1\t248956422\tsix\t60\t61\n",
			idx: nil,
			err: parseError(1, 2, &strconv.NumError{
				Func: "ParseInt",
				Num:  "six",
				Err:  strconv.ErrSyntax,
			}),
		},
	} {
		got, err := ReadFrom(strings.NewReader(test.in))
		if !reflect.DeepEqual(err, test.err) {
			t.Errorf("test %d: unexpected error: got:%#v want:%#v", i, err, test.err)
		}
		if !reflect.DeepEqual(got, test.idx) {
			t.Errorf("test %d: unexpected result: got:%#v want:%#v", i, got, test.idx)
		}
	}
}

func TestReadFromRejectsShortRow(t *testing.T) {
	in := "chr1\t248956422\t6\t60\t61\n" +
		"chr2\t242193529\t4151173\t60\n"
	idx, err := ReadFrom(strings.NewReader(in))
	if err == nil {
		t.Fatalf("expected an error for a short row, got idx %#v", idx)
	}
	var perr *csv.ParseError
	if !errors.As(err, &perr) || perr.Err != csv.ErrFieldCount {
		t.Errorf("ReadFrom error = %v, want a *csv.ParseError wrapping csv.ErrFieldCount", err)
	}
}

func TestWriteToAndNames(t *testing.T) {
	idx := Index{
		"chr3": Record{Name: "chr3", Length: 198295559, Start: 8190653, BasesPerLine: 60, BytesPerLine: 61},
		"chr1": Record{Name: "chr1", Length: 248956422, Start: 6, BasesPerLine: 60, BytesPerLine: 61},
		"chr2": Record{Name: "chr2", Length: 242193529, Start: 4151173, BasesPerLine: 60, BytesPerLine: 61},
	}
	if got, want := idx.Names(), []string{"chr1", "chr2", "chr3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "chr1\t248956422\t6\t60\t61\n" +
		"chr2\t242193529\t4151173\t60\t61\n" +
		"chr3\t198295559\t8190653\t60\t61\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTo():\ngot:\n%s\nwant:\n%s", got, want)
	}

	back, err := ReadFrom(strings.NewReader(want))
	if err != nil {
		t.Fatalf("round-trip ReadFrom: %v", err)
	}
	if !reflect.DeepEqual(back, idx) {
		t.Errorf("round-trip ReadFrom(WriteTo(idx)) = %#v, want %#v", back, idx)
	}
}
