// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioutil implements the IO Layer of §4.1 of the format spec:
// transparent decompression/compression over byte streams, selected by
// file extension, plus a line-oriented reader that tracks 1-based line
// numbers for error reporting.
package ioutil

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/wgatools/wga/errkind"
)

// Codec names the compression inferred from a file suffix.
type Codec int

const (
	None Codec = iota
	Gzip
	Bzip2
	Xz
)

func codecFor(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".bz2"):
		return Bzip2
	case strings.HasSuffix(path, ".xz"):
		return Xz
	default:
		return None
	}
}

// Source is a line-iterating byte source with 1-based line-number
// tracking, returned by OpenRead.
type Source struct {
	path   string
	r      *bufio.Reader
	closer io.Closer
	line   int
}

// OpenRead opens path (or stdin, for "-") for reading, transparently
// inserting the codec matched by the .gz/.bz2/.xz suffix. A missing
// file is a FATAL IO error.
func OpenRead(path string) (*Source, error) {
	if path == "-" {
		return &Source{path: "-", r: bufio.NewReader(os.Stdin)}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.New(errkind.IO, path, 0, err)
	}
	var r io.Reader = f
	switch codecFor(path) {
	case Gzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errkind.New(errkind.IO, path, 0, err)
		}
		r = gz
	case Bzip2:
		r = bzip2.NewReader(f)
	case Xz:
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, errkind.New(errkind.IO, path, 0, err)
		}
		r = xr
	}
	return &Source{path: path, r: bufio.NewReader(r), closer: f}, nil
}

// Path returns the path the Source was opened from.
func (s *Source) Path() string { return s.path }

// Line returns the 1-based number of the line most recently returned by
// ReadLine.
func (s *Source) Line() int { return s.line }

// ReadLine returns the next line with its trailing newline (and, if
// present, carriage return) stripped. Readers never look ahead more
// than one line except the MAF block reader, which reads until a blank
// line or EOF by calling ReadLine repeatedly.
func (s *Source) ReadLine() (string, error) {
	b, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errkind.New(errkind.IO, s.path, s.line+1, err)
	}
	if b == "" && err == io.EOF {
		return "", io.EOF
	}
	s.line++
	b = strings.TrimSuffix(b, "\n")
	b = strings.TrimSuffix(b, "\r")
	return b, nil
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Sink is a compressing, line-oriented byte sink returned by OpenWrite.
type Sink struct {
	path string
	w    *bufio.Writer
	wc   io.WriteCloser
	f    *os.File
}

// OpenWrite opens path (or stdout, for "-") for writing, inserting the
// codec matched by the .gz/.xz suffix. Writing a .bz2 stream is not
// supported (no write-capable bzip2 implementation exists in the
// dependency surface of this module) and is reported as a Conflict-kind
// error. An existing path is refused unless rewrite is true.
func OpenWrite(path string, rewrite bool) (*Sink, error) {
	if path == "-" {
		return &Sink{path: "-", w: bufio.NewWriter(os.Stdout)}, nil
	}
	if codecFor(path) == Bzip2 {
		return nil, errkind.Wrapf(errkind.Conflict, path, 0, "bzip2 compression is not supported for output")
	}
	if !rewrite {
		if _, err := os.Stat(path); err == nil {
			return nil, errkind.Wrapf(errkind.Conflict, path, 0, "refusing to overwrite existing file without -r")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errkind.New(errkind.IO, path, 0, err)
	}
	sink := &Sink{path: path, f: f}
	switch codecFor(path) {
	case Gzip:
		sink.wc = gzip.NewWriter(f)
		sink.w = bufio.NewWriter(sink.wc)
	case Xz:
		xw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errkind.New(errkind.IO, path, 0, err)
		}
		sink.wc = xw
		sink.w = bufio.NewWriter(sink.wc)
	default:
		sink.w = bufio.NewWriter(f)
	}
	return sink, nil
}

// WriteString writes s followed by a newline.
func (s *Sink) WriteString(str string) error {
	_, err := s.w.WriteString(str)
	if err != nil {
		return errkind.New(errkind.IO, s.path, 0, err)
	}
	return s.w.WriteByte('\n')
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close flushes and closes the sink. Bytes already flushed to stdout
// are accepted even if a later step fails, per the error-propagation
// rule of the error-handling design.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		return errkind.New(errkind.IO, s.path, 0, err)
	}
	if s.wc != nil {
		if err := s.wc.Close(); err != nil {
			return errkind.New(errkind.IO, s.path, 0, err)
		}
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}
