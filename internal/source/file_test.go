package source

import "testing"

func TestFilePosFirstLine(t *testing.T) {
	f := NewFile("<test>", []byte("var x;"))
	pos := f.Pos(4)
	if pos.Line != 1 || pos.Col != 5 {
		t.Fatalf("expected 1:5, got %+v", pos)
	}
}

func TestFilePosAfterNewlines(t *testing.T) {
	f := NewFile("<test>", []byte("var x;\nvar y;\nvar z;"))
	// offset 14 is the 'v' that starts "var z;" on line 3.
	pos := f.Pos(14)
	if pos.Line != 3 || pos.Col != 1 {
		t.Fatalf("expected 3:1, got %+v", pos)
	}
}

func TestFilePosMidSecondLine(t *testing.T) {
	f := NewFile("<test>", []byte("ab\ncd"))
	// offset 4 is the 'd' on line 2.
	pos := f.Pos(4)
	if pos.Line != 2 || pos.Col != 2 {
		t.Fatalf("expected 2:2, got %+v", pos)
	}
}

func TestFilePosNilFileReturnsOrigin(t *testing.T) {
	var f *File
	pos := f.Pos(10)
	if pos.Line != 1 || pos.Col != 1 {
		t.Fatalf("expected 1:1 for a nil file, got %+v", pos)
	}
}

func TestFileTextReturnsSpanContent(t *testing.T) {
	f := NewFile("<test>", []byte("print 1;"))
	if got := f.Text(Span{Start: 0, End: 5}); got != "print" {
		t.Fatalf("expected %q, got %q", "print", got)
	}
}
