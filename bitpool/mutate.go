package bitpool

// The operations in this file are the primitive bit-level mutations the
// autoshrink engine composes into tactics. Each operates on one recorded
// request (identified by its index in the ledger) and reports whether it
// actually changed anything, so a tactic can detect a no-op and report a
// dead end instead of proposing an identical candidate.

// RequestCount returns the number of recorded requests.
func (p *Pool) RequestCount() int { return len(p.requests) }

// RequestSize returns the size, in bits, of request i.
func (p *Pool) RequestSize(i int) int { return int(p.requests[i]) }

// ReadRequest returns the bits of request i as a uint64 (size must be <=
// 64, true for every tactic that reads a request as a scalar).
func (p *Pool) ReadRequest(i int) uint64 {
	off := p.Index()[i]
	return p.getBits(off, int(p.requests[i]))
}

// ZeroRequest clears all bits of request i in place. Reports whether any
// bit actually changed.
func (p *Pool) ZeroRequest(i int) bool {
	off := p.Index()[i]
	n := int(p.requests[i])
	if p.getBits(off, n) == 0 {
		return false
	}
	p.setBits(off, n, 0)
	p.generation++
	return true
}

// SpliceOutRequest removes request i entirely: its bits are deleted and
// every following bit shifts down to close the gap, and the request is
// dropped from the ledger. This is what lets "dropping" a request shrink
// the value's structure (an allocator that reads a zero/absent request on
// replay emits a correspondingly smaller substructure), not just its
// numeric content.
func (p *Pool) SpliceOutRequest(i int) {
	idx := p.Index()
	off := idx[i]
	n := int(p.requests[i])

	for bitIdx := off; bitIdx+n < p.bitsFilled; bitIdx++ {
		bit := p.getBits(bitIdx+n, 1)
		p.setBits(bitIdx, 1, bit)
	}
	p.bitsFilled -= n
	p.requests = append(p.requests[:i], p.requests[i+1:]...)
	p.generation++
}

// ShiftRequestRight shifts request i's bits right (toward zero) by amount,
// zero-filling the vacated high bits. Reports whether anything changed.
func (p *Pool) ShiftRequestRight(i int, amount int) bool {
	n := int(p.requests[i])
	if amount <= 0 || n == 0 {
		return false
	}
	if amount >= n {
		amount = n
	}
	off := p.Index()[i]
	v := p.getBits(off, n)
	shifted := v >> uint(amount)
	if shifted == v {
		return false
	}
	p.setBits(off, n, shifted)
	p.generation++
	return true
}

// MaskRequest ANDs request i's bits with mask. Reports whether anything
// changed.
func (p *Pool) MaskRequest(i int, mask uint64) bool {
	n := int(p.requests[i])
	off := p.Index()[i]
	v := p.getBits(off, n)
	masked := v & mask
	if masked == v {
		return false
	}
	p.setBits(off, n, masked)
	p.generation++
	return true
}

// SwapRequests exchanges the bits of requests i and j if and only if they
// have equal size (a no-op otherwise, per spec). Reports whether anything
// changed.
func (p *Pool) SwapRequests(i, j int) bool {
	if p.requests[i] != p.requests[j] {
		return false
	}
	n := int(p.requests[i])
	idx := p.Index()
	oi, oj := idx[i], idx[j]
	vi := p.getBits(oi, n)
	vj := p.getBits(oj, n)
	if vi == vj {
		return false
	}
	p.setBits(oi, n, vj)
	p.setBits(oj, n, vi)
	p.generation++
	return true
}

// SubRequest subtracts amount from request i's value, saturating at zero.
// Reports whether anything changed.
func (p *Pool) SubRequest(i int, amount uint64) bool {
	n := int(p.requests[i])
	off := p.Index()[i]
	v := p.getBits(off, n)
	if amount == 0 || v == 0 {
		return false
	}
	if amount > v {
		amount = v
	}
	nv := v - amount
	p.setBits(off, n, nv)
	p.generation++
	return true
}
