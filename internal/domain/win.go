package domain

// Line is a triple of board indices.
type Line [3]int

// Lines lists the winning triples in the order they are checked.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Result is the outcome of evaluating a board. Line is nil when there is no winner.
type Result struct {
	Winner Cell
	Line   []int
}

// Contains reports whether index i is part of the winning line.
func (r Result) Contains(i int) bool {
	for _, idx := range r.Line {
		if idx == i {
			return true
		}
	}
	return false
}

// Evaluate returns the first line holding three equal markers. A full board without
// such a line yields the same empty result as a game in progress.
func Evaluate(b Board) Result {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return Result{Winner: a, Line: []int{ln[0], ln[1], ln[2]}}
		}
	}
	return Result{}
}
