package points

// PointsTable holds the points awarded for finishing positions 1..N.
// Build it with NewPointsTable; the backing slice is never shared.
type PointsTable struct {
	values []int
}

// NewPointsTable copies values into a table.
func NewPointsTable(values ...int) PointsTable {
	v := make([]int, len(values))
	copy(v, values)
	return PointsTable{values: v}
}

// DefaultPointsTable is the championship scale for the top ten.
func DefaultPointsTable() PointsTable {
	return NewPointsTable(25, 18, 15, 12, 10, 8, 6, 4, 2, 1)
}

// Points returns the award for position, zero outside 1..Len.
func (t PointsTable) Points(position int) int {
	if position < 1 || position > len(t.values) {
		return 0
	}
	return t.values[position-1]
}

// Len returns the number of paying positions.
func (t PointsTable) Len() int { return len(t.values) }

// MaxPerSession is the most a single session can award across all drivers.
func (t PointsTable) MaxPerSession() int {
	total := 0
	for _, v := range t.values {
		total += v
	}
	return total
}

// Values returns a copy of the table.
func (t PointsTable) Values() []int {
	out := make([]int, len(t.values))
	copy(out, t.values)
	return out
}
