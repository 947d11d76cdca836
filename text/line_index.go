package text

import "sort"

// LineCol is a zero-based line and byte column.
type LineCol struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// LineIndex maps byte offsets to line/column pairs and back.
type LineIndex struct {
	text       string
	lineStarts []int
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: src, lineStarts: starts}
}

func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// LineCol returns the position of offset. Offsets past the end are clamped.
func (idx *LineIndex) LineCol(offset int) LineCol {
	offset = idx.clamp(offset)
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	return LineCol{Line: line, Col: offset - idx.lineStarts[line]}
}

// Offset returns the byte offset of pos, clamped to the line and the text.
func (idx *LineIndex) Offset(pos LineCol) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(idx.lineStarts) {
		return len(idx.text)
	}
	start := idx.lineStarts[pos.Line]
	end := idx.lineEnd(pos.Line)
	off := start + pos.Col
	if off > end {
		off = end
	}
	if off < start {
		off = start
	}
	return off
}

// Line returns the text of the given line without its terminator.
func (idx *LineIndex) Line(line int) string {
	if line < 0 || line >= len(idx.lineStarts) {
		return ""
	}
	return idx.text[idx.lineStarts[line]:idx.lineEnd(line)]
}

// UTF16Col converts a byte column on line to a UTF-16 code unit column.
func (idx *LineIndex) UTF16Col(pos LineCol) int {
	s := idx.Line(pos.Line)
	if pos.Col > len(s) {
		pos.Col = len(s)
	}
	n := 0
	for _, r := range s[:pos.Col] {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// FromUTF16Col converts a UTF-16 column on line to a byte column.
func (idx *LineIndex) FromUTF16Col(line, col16 int) LineCol {
	s := idx.Line(line)
	units := 0
	for i, r := range s {
		if units >= col16 {
			return LineCol{Line: line, Col: i}
		}
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return LineCol{Line: line, Col: len(s)}
}

func (idx *LineIndex) lineEnd(line int) int {
	if line+1 < len(idx.lineStarts) {
		return idx.lineStarts[line+1] - 1
	}
	return len(idx.text)
}

func (idx *LineIndex) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(idx.text) {
		return len(idx.text)
	}
	return offset
}
