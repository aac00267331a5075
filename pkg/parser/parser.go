package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Document is the prose of an HTML page.
type Document struct {
	Title  string
	Byline string
	Text   string
}

type Parser struct{}

// ExtractText uses go-readability to find the main article and then collects
// the text of its headings, paragraphs and list items, one block per line.
// Tables and code blocks are not essay prose and are skipped. When readability
// finds nothing, the visible body text of the page is used instead.
func (p *Parser) ExtractText(rawURL, html string) (*Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}

	doc := &Document{}
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), parsedURL)
	if err == nil {
		doc.Title = normalizeText(article.Title)
		doc.Byline = normalizeText(article.Byline)
		doc.Text, err = blocks(article.Content)
		if err != nil {
			return nil, err
		}
	}

	if doc.Text == "" {
		doc.Text, err = bodyText(html)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func blocks(html string) (string, error) {
	sel, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []string
	sel.Find("h1,h2,h3,h4,p,li").Each(func(i int, s *goquery.Selection) {
		// nested list items and paragraphs are reported by their parent
		if s.ParentsFiltered("li").Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n"), nil
}

func bodyText(html string) (string, error) {
	sel, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	sel.Find("script,style,noscript,nav,header,footer").Remove()
	return normalizeText(sel.Find("body").Text()), nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
