package ac

import (
	"fmt"
)

// A CheckedFrequencyTable wraps another table and verifies the arguments and results of every call.
// A violation by the wrapped table panics, since it means the table itself is broken.
// Arithmetic overflow is not checked.
type CheckedFrequencyTable struct {
	table FrequencyTable
}

// NewCheckedFrequencyTable wraps t.
// Wrapping an already checked table returns it as is.
func NewCheckedFrequencyTable(t FrequencyTable) *CheckedFrequencyTable {
	if c, ok := t.(*CheckedFrequencyTable); ok {
		return c
	}
	return &CheckedFrequencyTable{table: t}
}

func (c *CheckedFrequencyTable) SymbolLimit() int {
	n := c.table.SymbolLimit()
	if n <= 0 {
		panic("non-positive symbol limit")
	}
	return n
}

func (c *CheckedFrequencyTable) Get(symbol int) int {
	if !c.inRange(symbol) {
		c.table.Get(symbol)
		panic(fmt.Sprintf("Get(%d) out of range did not panic", symbol))
	}
	f := c.table.Get(symbol)
	if f < 0 {
		panic(fmt.Sprintf("negative frequency %d for symbol %d", f, symbol))
	}
	return f
}

func (c *CheckedFrequencyTable) Set(symbol, freq int) error {
	err := c.table.Set(symbol, freq)
	if err == nil && (!c.inRange(symbol) || freq < 0) {
		panic(fmt.Sprintf("Set(%d, %d) succeeded on invalid arguments", symbol, freq))
	}
	return err
}

func (c *CheckedFrequencyTable) Increment(symbol int) error {
	err := c.table.Increment(symbol)
	if err == nil && !c.inRange(symbol) {
		panic(fmt.Sprintf("Increment(%d) succeeded out of range", symbol))
	}
	return err
}

func (c *CheckedFrequencyTable) Total() int {
	total := c.table.Total()
	if total < 0 {
		panic(fmt.Sprintf("negative total frequency %d", total))
	}
	return total
}

func (c *CheckedFrequencyTable) Low(symbol int) int {
	low, _ := c.bounds(symbol)
	return low
}

func (c *CheckedFrequencyTable) High(symbol int) int {
	_, high := c.bounds(symbol)
	return high
}

func (c *CheckedFrequencyTable) String() string {
	return fmt.Sprintf("CheckedFrequencyTable(%v)", c.table)
}

func (c *CheckedFrequencyTable) bounds(symbol int) (int, int) {
	if !c.inRange(symbol) {
		c.table.Low(symbol)
		panic(fmt.Sprintf("Low(%d) out of range did not panic", symbol))
	}
	low, high := c.table.Low(symbol), c.table.High(symbol)
	if !(0 <= low && low <= high && high <= c.table.Total()) {
		panic(fmt.Sprintf("symbol %d cumulative frequencies [%d, %d) out of range", symbol, low, high))
	}
	return low, high
}

func (c *CheckedFrequencyTable) inRange(symbol int) bool {
	return 0 <= symbol && symbol < c.SymbolLimit()
}
