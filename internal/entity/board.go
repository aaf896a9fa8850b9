package entity

const (
	DefaultBoardSize = 3
	// MaxBoardSize bounds client-chosen boards. Search beyond 4x4 is budget-bound anyway.
	MaxBoardSize = 16

	EmptyCell Mark = ""
)

// Mark is the symbol a player puts on the board.
type Mark string

// Cell is a board coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is a sequence of cells that wins the game when one mark owns all of them.
type Line []Cell

// Board is a square grid stored in row-major order.
type Board struct {
	Size  int    `json:"size"`
	Cells []Mark `json:"cells"`
}

func NewBoard(size int) Board {
	return Board{
		Size:  size,
		Cells: make([]Mark, size*size),
	}
}

func (that Board) InBounds(cell Cell) bool {
	return cell.Row >= 0 && cell.Row < that.Size && cell.Col >= 0 && cell.Col < that.Size
}

// At returns the mark at cell. The cell must be in bounds.
func (that Board) At(cell Cell) Mark {
	return that.Cells[cell.Row*that.Size+cell.Col]
}

func (that Board) set(cell Cell, mark Mark) {
	that.Cells[cell.Row*that.Size+cell.Col] = mark
}

func (that Board) IsFull() bool {
	for _, mark := range that.Cells {
		if mark == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyCells lists the free cells in row-major order.
func (that Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, len(that.Cells))
	for i, mark := range that.Cells {
		if mark == EmptyCell {
			cells = append(cells, Cell{Row: i / that.Size, Col: i % that.Size})
		}
	}

	return cells
}

// LineOwner returns the mark occupying every cell of line, or EmptyCell.
func (that Board) LineOwner(line Line) Mark {
	owner := that.At(line[0])
	if owner == EmptyCell {
		return EmptyCell
	}

	for _, cell := range line[1:] {
		if that.At(cell) != owner {
			return EmptyCell
		}
	}

	return owner
}

func (that Board) clone() Board {
	cells := make([]Mark, len(that.Cells))
	copy(cells, that.Cells)

	return Board{Size: that.Size, Cells: cells}
}

// WinningLines returns the 2*size+2 winning lines: rows, then columns, then the main
// diagonal and the anti-diagonal.
func WinningLines(size int) []Line {
	lines := make([]Line, 0, 2*size+2)

	for row := range size {
		line := make(Line, size)
		for col := range size {
			line[col] = Cell{Row: row, Col: col}
		}
		lines = append(lines, line)
	}

	for col := range size {
		line := make(Line, size)
		for row := range size {
			line[row] = Cell{Row: row, Col: col}
		}
		lines = append(lines, line)
	}

	diagonal := make(Line, size)
	antiDiagonal := make(Line, size)
	for i := range size {
		diagonal[i] = Cell{Row: i, Col: i}
		antiDiagonal[i] = Cell{Row: i, Col: size - 1 - i}
	}

	return append(lines, diagonal, antiDiagonal)
}
