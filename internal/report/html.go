package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Harradine Reports</title>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.3.1/css/bootstrap.min.css" integrity="sha384-ggOyR0iXCbMQv3Xipma34MD+dH/1fQ784/j6cY/iJTQUOhcWr7x9JvoRxT2MZw1T" crossorigin="anonymous">
<style>
BODY { margin: 50px; }
</style>
</head>
<body>
<h1>Harradine Reports</h1>
<p>Links to each Commonwealth agency's Harradine report (index of files). Each link is the top search result on the agency's own domain, so some of them are wrong.</p>
</body>
</html>
`

// RenderHTML writes the link list page.
func RenderHTML(w io.Writer, links []Link) error {
	doc, err := html.Parse(strings.NewReader(pageSkeleton))
	if err != nil {
		return fmt.Errorf("parse page skeleton: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return errors.New("page skeleton has no body")
	}
	for _, l := range links {
		a := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr:     []html.Attribute{{Key: "href", Val: l.URL}},
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: l.Title})
		h3 := &html.Node{Type: html.ElementNode, Data: "h3", DataAtom: atom.H3}
		h3.AppendChild(a)
		body.AppendChild(h3)
		body.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
	}
	return html.Render(w, doc)
}

// WriteHTML renders the page to path.
func WriteHTML(path string, links []Link) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderHTML(f, links); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
