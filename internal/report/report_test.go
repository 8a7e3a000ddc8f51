package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hyperifyio/reportfinder/internal/aggregate"
)

var rows = []aggregate.Row{
	{Title: "Zeta Agency", Portfolio: "Finance", Domain: "zeta.gov.au", ReportURL: "http://zeta.gov.au/files", ReportPageTitle: "Zeta files"},
	{Title: "Lost Agency", Portfolio: "Health", Domain: "lost.gov.au", ReportURL: "UNKNOWN", ReportPageTitle: "UNKNOWN"},
	{Title: "Alpha & Co", Portfolio: "Finance", Domain: "alpha.gov.au", ReportURL: "http://alpha.gov.au/list?a=1&b=2", ReportPageTitle: "Alpha"},
}

func TestWriteCSV_Split(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows[:2], ShapeSplit); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Title,Portfolio,Domain,ReportURL,ReportPageTitle\n" +
		"Zeta Agency,Finance,zeta.gov.au,http://zeta.gov.au/files,Zeta files\n" +
		"Lost Agency,Health,lost.gov.au,UNKNOWN,UNKNOWN\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteCSV_Harradine(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows[:1], ShapeHarradine); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Title,Portfolio,Domain,Harradine\nZeta Agency,Finance,zeta.gov.au,http://zeta.gov.au/files\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseShape(t *testing.T) {
	if s, err := ParseShape(""); err != nil || s != ShapeSplit {
		t.Fatalf("default shape: %q %v", s, err)
	}
	if s, err := ParseShape("Harradine"); err != nil || s != ShapeHarradine {
		t.Fatalf("harradine shape: %q %v", s, err)
	}
	if _, err := ParseShape("wide"); err == nil {
		t.Fatalf("expected error for unknown shape")
	}
}

func TestReadLinks_DropsUnknownAndSorts(t *testing.T) {
	for _, shape := range []Shape{ShapeSplit, ShapeHarradine} {
		p := filepath.Join(t.TempDir(), "out.csv")
		if err := WriteFile(p, rows, shape); err != nil {
			t.Fatalf("write file: %v", err)
		}
		got, err := ReadLinks(p)
		if err != nil {
			t.Fatalf("read links: %v", err)
		}
		want := []Link{
			{Title: "Alpha & Co", URL: "http://alpha.gov.au/list?a=1&b=2"},
			{Title: "Zeta Agency", URL: "http://zeta.gov.au/files"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: %s", shape, diff)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	links := []Link{{Title: "Alpha & Co", URL: "http://alpha.gov.au/list?a=1&b=2"}}
	if err := RenderHTML(&buf, links); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("missing doctype: %.40q", out)
	}
	if !strings.Contains(out, `<h3><a href="http://alpha.gov.au/list?a=1&amp;b=2">Alpha &amp; Co</a></h3>`) {
		t.Fatalf("link not rendered:\n%s", out)
	}
	if !strings.Contains(out, "<h1>Harradine Reports</h1>") {
		t.Fatalf("heading missing:\n%s", out)
	}
}

func TestWritePDF(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reports.pdf")
	if err := WritePDF(p, []Link{{Title: "Société", URL: "http://societe.gov.au/files"}}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
}
