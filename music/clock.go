package music

import "github.com/JeanRibes/progression/chord"

// Divider turns clock edges into beats.
type Divider struct {
	index int
	count int
}

func (d *Divider) Division() int {
	return Divisions[d.index]
}

func (d *Divider) Index() int {
	return d.index
}

// Edge counts one rising edge and reports whether it completes a beat.
func (d *Divider) Edge() bool {
	d.count += 1
	if d.count >= d.Division() {
		d.count = 0
		return true
	}
	return false
}

// SetIndex changes the division. The count restarts right away instead of
// waiting out the old division.
func (d *Divider) SetIndex(i int) {
	if i < 0 || i >= len(Divisions) {
		i = DEFAULT_DIVISION_INDEX
	}
	if i == d.index {
		return
	}
	d.index = i
	d.count = 0
}

func (d *Divider) Reset() {
	d.count = 0
}

// Frame is one set of outputs.
type Frame struct {
	Volts   [chord.NUM_VOICES]float64
	Voicing chord.Voicing
}

// Cache holds the last frame until the host reads it.
type Cache struct {
	frame Frame
	dirty bool
}

func (c *Cache) Store(v chord.Voicing) {
	c.frame = Frame{Volts: v.Volts(), Voicing: v}
	c.dirty = true
}

// Take returns the frame and whether it changed since the last Take.
func (c *Cache) Take() (Frame, bool) {
	dirty := c.dirty
	c.dirty = false
	return c.frame, dirty
}

func (c *Cache) Last() Frame {
	return c.frame
}
