package translator

// LabelCounter hands out the session ordinals from which branch targets and
// return-address labels are built. One counter serves a whole session; it
// must not be reset between modules.
type LabelCounter struct {
	next int
}

// NewLabelCounter returns a counter whose first ordinal is start.
func NewLabelCounter(start int) *LabelCounter {
	return &LabelCounter{next: start}
}

// Next returns the current ordinal and advances the counter.
func (c *LabelCounter) Next() int {
	n := c.next
	c.next++
	return n
}

// Peek returns the ordinal the next call to Next will hand out.
func (c *LabelCounter) Peek() int {
	return c.next
}

// Reserve hands out a contiguous block of n ordinals and returns the first.
// Modules translated independently can each take a block without sharing the
// counter afterwards.
func (c *LabelCounter) Reserve(n int) int {
	first := c.next
	c.next += n
	return first
}
