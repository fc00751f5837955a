package pattern

// stateHash is a 256-bit digest of one Game of Life board: four
// independently seeded 64-bit lanes, each fed every cell in index order
// so transposed or shifted boards digest differently.
type stateHash [4]uint64

// goldenGamma is the splitmix64 sequence increment, reused here to seed
// and salt the four lanes.
const goldenGamma = 0x9e3779b97f4a7c15

// mix64 is the splitmix64 finalizer. A single flipped input bit
// avalanches across the whole output word.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// hashCells digests a board. Deterministic: equal boards always collide,
// and any single-cell difference diverges in all four lanes.
func hashCells(cells []uint8) stateHash {
	var h stateHash
	for lane := range h {
		h[lane] = mix64(uint64(lane+1) * goldenGamma)
	}
	for i, c := range cells {
		v := uint64(i)<<1 | uint64(c&1)
		for lane := range h {
			h[lane] = mix64(h[lane] ^ (v + uint64(lane)*goldenGamma))
		}
	}
	return h
}

// historyRingCapacity bounds how far back the cycle detector can see;
// with four recurrences required, periods up to about a quarter of this
// are detectable.
const historyRingCapacity = 100

type ringEntry struct {
	hash stateHash
	gen  uint32
}

// historyRing keeps the most recent {hash, generation} pairs and spots
// boards the automaton has produced before.
type historyRing struct {
	entries [historyRingCapacity]ringEntry
	count   int
	pos     int
}

func (r *historyRing) reset() {
	r.count = 0
	r.pos = 0
}

// observe records the board hash for generation gen and scans for prior
// occurrences. When this is the fourth recurrence of the same hash it
// returns the cycle period, measured to the most recent prior
// occurrence; otherwise it returns 0.
func (r *historyRing) observe(h stateHash, gen uint32) uint32 {
	matches := 0
	var mostRecent uint32
	for i := 0; i < r.count; i++ {
		if r.entries[i].hash == h {
			matches++
			if r.entries[i].gen > mostRecent {
				mostRecent = r.entries[i].gen
			}
		}
	}
	r.entries[r.pos] = ringEntry{hash: h, gen: gen}
	r.pos = (r.pos + 1) % historyRingCapacity
	if r.count < historyRingCapacity {
		r.count++
	}
	if matches >= 4 && gen > mostRecent {
		return gen - mostRecent
	}
	return 0
}
