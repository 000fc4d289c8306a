package hw

import "sync"

// Symbol is a data port value together with the carrier activity seen
// while it was held.
type Symbol struct {
	Value   byte
	Toggles [8]uint32
}

// Recorder is an in-memory Port and CarrierPort.
type Recorder struct {
	lock    sync.Mutex
	symbols []Symbol
	idle    [8]uint32
	level   byte
}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Write implements Port.
func (r *Recorder) Write(v byte) {
	r.lock.Lock()
	r.symbols = append(r.symbols, Symbol{Value: v})
	r.lock.Unlock()
}

// Toggle implements CarrierPort.
func (r *Recorder) Toggle(mask byte) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.level ^= mask
	counts := &r.idle
	if n := len(r.symbols); n > 0 {
		counts = &r.symbols[n-1].Toggles
	}
	for bit := uint(0); bit < 8; bit++ {
		if mask&(1<<bit) != 0 {
			counts[bit]++
		}
	}
}

// Symbols returns everything written so far.
func (r *Recorder) Symbols() []Symbol {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Symbol(nil), r.symbols...)
}

// Values returns the data port values written so far.
func (r *Recorder) Values() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]byte, len(r.symbols))
	for n, s := range r.symbols {
		out[n] = s.Value
	}
	return out
}

// Toggles returns the total toggles of a carrier line.
func (r *Recorder) Toggles(line uint) (n uint32) {
	r.lock.Lock()
	defer r.lock.Unlock()
	n = r.idle[line]
	for _, s := range r.symbols {
		n += s.Toggles[line]
	}
	return
}

// Level returns the current carrier line levels.
func (r *Recorder) Level() byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.level
}

// Reset clears the recording. Carrier levels are kept.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.symbols, r.idle = nil, [8]uint32{}
	r.lock.Unlock()
}

// MemPin is an in-memory Pin.
type MemPin struct {
	lock    sync.Mutex
	on      bool
	toggles int
}

// Set implements Pin.
func (p *MemPin) Set(on bool) {
	p.lock.Lock()
	if p.on != on {
		p.toggles++
	}
	p.on = on
	p.lock.Unlock()
}

// Toggle implements Pin.
func (p *MemPin) Toggle() {
	p.lock.Lock()
	p.on = !p.on
	p.toggles++
	p.lock.Unlock()
}

// On returns the current level.
func (p *MemPin) On() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.on
}

// Toggles returns the number of level changes.
func (p *MemPin) Toggles() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.toggles
}
