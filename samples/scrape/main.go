// Command scrape prints the text of every <p> element in "<p>Hello</p>".
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

const document = "<p>Hello</p>"

// paragraphs is compiled at start-up; a malformed selector panics.
var paragraphs = cascadia.MustCompile("p")

// selectText returns the text of every node matching sel, in document order.
func selectText(r io.Reader, sel cascadia.Selector) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	var out []string
	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out, nil
}

func main() {
	texts, err := selectText(strings.NewReader(document), paragraphs)
	if err != nil {
		panic(err)
	}
	for _, text := range texts {
		fmt.Println(text)
	}
}
