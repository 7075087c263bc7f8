package token

import "fmt"

// Pos is a position in the input. Line and Col are zero based; Col counts
// runes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("offset %d (line=%d, col=%d)", p.Offset, p.Line, p.Col)
}

func (p *Pos) advance(r rune, size int) {
	p.Offset += size
	if r == '\n' {
		p.Line++
		p.Col = 0
		return
	}
	p.Col++
}
