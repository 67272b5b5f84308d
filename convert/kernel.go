// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"github.com/wgatools/wga/chain"
	"github.com/wgatools/wga/errkind"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
	"github.com/wgatools/wga/seqfetch"
)

// MAF2PAF converts a MAF block to a PAF record, deriving the CIGAR from
// the block's gapped sequences.
func MAF2PAF(b *maf.Block) (*paf.Record, error) {
	rec, err := NormalizeMAF(b)
	if err != nil {
		return nil, err
	}
	return DenormalizePAF(rec), nil
}

// MAF2Chain converts a MAF block to a chain Record.
func MAF2Chain(b *maf.Block) (*chain.Record, error) {
	rec, err := NormalizeMAF(b)
	if err != nil {
		return nil, err
	}
	return DenormalizeChain(rec), nil
}

// PAF2MAF converts a PAF record to a MAF block, fetching target and
// query bases through fetcher. If the record's CIGAR is absent, or
// fetcher is nil (whatever ops the CIGAR uses), PAF2MAF returns an
// errkind.CapabilityMissing error: the MAF lines carry bases, which
// only a SequenceFetcher can supply (§4.4, §6 open question on
// ambiguous CIGARs).
func PAF2MAF(r *paf.Record, fetcher seqfetch.Fetcher) (*maf.Block, error) {
	rec, err := NormalizePAF(r)
	if err != nil {
		if err == paf.ErrMissingCigar {
			return nil, errkind.New(errkind.CapabilityMissing, "", 0, err)
		}
		return nil, err
	}
	if fetcher == nil {
		return nil, errkind.Wrapf(errkind.CapabilityMissing, "", 0,
			"convert: PAF -> MAF requires a SequenceFetcher to materialize bases")
	}
	tSeq, err := fetcher.Fetch(rec.TName, rec.TStart, rec.TEnd)
	if err != nil {
		return nil, err
	}
	qSeq, err := seqfetch.FetchStrand(fetcher, rec.QName, rec.QStart, rec.QEnd, rec.QStrand)
	if err != nil {
		return nil, err
	}
	return DenormalizeMAF(rec, tSeq, qSeq), nil
}

// PAF2Chain converts a PAF record to a chain Record. No base fetch is
// needed: CHAIN collapses `=`/`X`/`M` into a single aligned run.
func PAF2Chain(r *paf.Record) (*chain.Record, error) {
	rec, err := NormalizePAF(r)
	if err != nil {
		if err == paf.ErrMissingCigar {
			return nil, errkind.New(errkind.CapabilityMissing, "", 0, err)
		}
		return nil, err
	}
	return DenormalizeChain(rec), nil
}

// Chain2MAF converts a chain Record to a MAF block, fetching bases
// through fetcher. The reconstructed CIGAR uses `M` (match or
// mismatch, bases unresolved; §4.2), so a fetcher is always required to
// produce the gapped sequences a MAF block needs.
func Chain2MAF(r *chain.Record, fetcher seqfetch.Fetcher) (*maf.Block, error) {
	rec := NormalizeChain(r)
	if fetcher == nil {
		return nil, errkind.Wrapf(errkind.CapabilityMissing, "", 0,
			"convert: CHAIN -> MAF requires a SequenceFetcher to materialize bases")
	}
	tSeq, err := fetcher.Fetch(rec.TName, rec.TStart, rec.TEnd)
	if err != nil {
		return nil, err
	}
	qSeq, err := seqfetch.FetchStrand(fetcher, rec.QName, rec.QStart, rec.QEnd, rec.QStrand)
	if err != nil {
		return nil, err
	}
	return DenormalizeMAF(rec, tSeq, qSeq), nil
}

// Chain2PAF converts a chain Record to a PAF record.
func Chain2PAF(r *chain.Record) (*paf.Record, error) {
	rec := NormalizeChain(r)
	return DenormalizePAF(rec), nil
}
