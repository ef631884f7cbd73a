package extract

import (
	"io"
	"strings"
)

// TextExtractor handles plain text files. Form feeds mark page boundaries;
// without them the whole file is a single page.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\f"), nil
}
