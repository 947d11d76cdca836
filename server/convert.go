package server

import (
	"github.com/dhamidi/libsyntax/edit"
	"github.com/dhamidi/libsyntax/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP positions count UTF-16 code units; the syntax layer counts bytes.

func byteOffset(lines *text.LineIndex, pos protocol.Position) int {
	return lines.Offset(lines.FromUTF16Col(int(pos.Line), int(pos.Character)))
}

func byteRange(lines *text.LineIndex, r protocol.Range) text.Range {
	start := byteOffset(lines, r.Start)
	end := byteOffset(lines, r.End)
	if end < start {
		end = start
	}
	return text.NewRange(start, end)
}

func position(lines *text.LineIndex, offset int) protocol.Position {
	lc := lines.LineCol(offset)
	return protocol.Position{
		Line:      protocol.UInteger(lc.Line),
		Character: protocol.UInteger(lines.UTF16Col(lc)),
	}
}

func lspRange(lines *text.LineIndex, r text.Range) protocol.Range {
	return protocol.Range{Start: position(lines, r.Start), End: position(lines, r.End)}
}

// textEdits converts e into simultaneous LSP edits against the text lines
// was built from.
func textEdits(lines *text.LineIndex, e *edit.Edit) []protocol.TextEdit {
	var edits []protocol.TextEdit
	for _, a := range e.OriginalAtoms() {
		edits = append(edits, protocol.TextEdit{Range: lspRange(lines, a.Delete), NewText: a.Insert})
	}
	return edits
}
