// Package ingest turns essay sources (stdin, text, PDF, DOCX and HTML files, web
// pages) into a single line of text.
package ingest

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/essay-obscurity/pkg/fetcher"
	"github.com/dtnitsch/essay-obscurity/pkg/parser"
	"github.com/ledongthuc/pdf"
)

// ErrEmptyInput is returned when a source holds no text.
var ErrEmptyInput = errors.New("no essay text provided")

// Essay is an ingested essay.
type Essay struct {
	Source string
	Title  string
	Text   string
}

// ReadText reads r to EOF and joins its lines with single spaces. Lines may be
// any length.
func ReadText(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 || err == nil {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}

	text := strings.Join(lines, " ")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

// ReadFile ingests a file by extension: .pdf, .docx, .html/.htm, and anything
// else as plain text.
func ReadFile(path string) (*Essay, error) {
	var text, title string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = parsePDF(path)
	case ".docx":
		text, err = parseDOCX(path)
	case ".html", ".htm":
		var raw []byte
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var doc *parser.Document
		doc, err = (&parser.Parser{}).ExtractText("file://"+filepath.ToSlash(path), string(raw))
		if doc != nil {
			text, title = doc.Text, doc.Title
		}
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		text, err = ReadText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", path, err)
	}

	text, err = joinLines(text)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", path, err)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &Essay{Source: path, Title: title, Text: text}, nil
}

// FromURL fetches a web page and extracts its article text.
func FromURL(ctx context.Context, f *fetcher.Fetcher, p *parser.Parser, rawURL string) (*Essay, error) {
	html, err := f.GetHtml(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := p.ExtractText(rawURL, html)
	if err != nil {
		return nil, err
	}
	text, err := joinLines(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", rawURL, err)
	}
	return &Essay{Source: rawURL, Title: doc.Title, Text: text}, nil
}

func joinLines(text string) (string, error) {
	return ReadText(strings.NewReader(text))
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no extractable text found in pdf: %w", ErrEmptyInput)
	}
	return b.String(), nil
}

func parseDOCX(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, zf := range zr.File {
		if zf.Name != "word/document.xml" {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		xmlData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(xmlData) == 0 {
		return "", errors.New("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
