// Package source produces token streams for the reconstruction pipeline.
// Producers are interchangeable: the pipeline does not care whether tokens
// came from a PDF text layer, OCR output, an HTML table, or static
// configuration, as long as they carry (text, x, y, page).
package source

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/tariffscan/tariffscan/internal/token"
)

// ParseTSV reads word-level TSV as emitted by `pdftotext -tsv` and
// `tesseract ... tsv`. Both tools share the column layout
//
//	level page_num par_num block_num line_num word_num left top width height conf text
//
// Only rows with non-empty text survive; block/paragraph/line rows carry no
// text and are skipped.
func ParseTSV(r io.Reader) ([]token.Token, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out []token.Token
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if strings.HasPrefix(line, "level\t") {
				continue
			}
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 12 {
			continue
		}
		text := token.Clean(fields[11])
		if text == "" {
			continue
		}
		page, err1 := strconv.Atoi(fields[1])
		left, err2 := strconv.ParseFloat(fields[6], 64)
		top, err3 := strconv.ParseFloat(fields[7], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		out = append(out, token.Token{Text: text, X: left, Y: top, Page: page})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
