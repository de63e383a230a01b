package source

import "fortio.org/safecast"

// File is the single source buffer a run of the pipeline operates on.
// Lox programs are one file at a time (spec §5: "source I/O only at
// program start"), so unlike a multi-file project this holds no file
// table — just the bytes and a line index for resolving spans back to
// human-facing positions.
type File struct {
	Name    string
	Content []byte

	// lineStarts[i] is the byte offset of the first byte of line i+1.
	lineStarts []uint32
}

// NewFile builds a File and its line index from raw bytes.
func NewFile(name string, content []byte) *File {
	f := &File{Name: name, Content: content}
	f.lineStarts = buildLineIndex(content)
	return f
}

func buildLineIndex(content []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				break // source too large to index; later lines fall back to Pos's last entry
			}
			starts = append(starts, off)
		}
	}
	return starts
}

// Text returns the source text covered by span.
func (f *File) Text(span Span) string {
	if f == nil || int(span.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}

// Pos converts a byte offset into a 1-based line/column pair.
func (f *File) Pos(offset uint32) Pos {
	if f == nil || len(f.lineStarts) == 0 {
		return Pos{Line: 1, Col: 1}
	}
	lo, hi := 0, len(f.lineStarts)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if f.lineStarts[mid] <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	col := int(offset-f.lineStarts[line]) + 1
	return Pos{Line: line + 1, Col: col}
}
