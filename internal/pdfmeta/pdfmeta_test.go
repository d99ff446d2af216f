package pdfmeta

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writePDF builds a minimal single-page document with an Info dictionary.
func writePDF(t *testing.T, title, author string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
		fmt.Sprintf("<< /Title (%s) /Author (%s) >>", title, author),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadInfoDictionary(t *testing.T) {
	t.Parallel()

	path := writePDF(t, "Attention Is All You Need", "Ashish Vaswani; Noam Shazeer and Niki Parmar")
	md, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if md.Title != "Attention Is All You Need" {
		t.Fatalf("title = %q", md.Title)
	}
	want := []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"}
	if !reflect.DeepEqual(md.Authors, want) {
		t.Fatalf("authors = %#v, want %#v", md.Authors, want)
	}
}

func TestReadRejectsNonPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	if got := splitAuthors(""); got != nil {
		t.Fatalf("splitAuthors(empty) = %#v", got)
	}
	if got := firstLine("short\narXiv:1706.03762v5 [cs.CL] 6 Dec 2017\n  Attention Is All   You Need  \n"); got != "Attention Is All You Need" {
		t.Fatalf("firstLine = %q", got)
	}
	if got := doiPattern.FindString("see doi 10.1145/3292500.3330701."); got != "10.1145/3292500.3330701." {
		t.Fatalf("doi = %q", got)
	}
}
