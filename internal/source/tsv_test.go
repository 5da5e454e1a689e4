package source

import (
	"strings"
	"testing"
)

const sampleTSV = "level\tpage_num\tpar_num\tblock_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t612\t792\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t72\t100\t80\t12\t96\tProcessing\n" +
	"5\t1\t1\t1\t1\t2\t160\t100\t30\t12\t95\tfee\n" +
	"5\t1\t1\t1\t2\t1\t72\t115\t60\t12\t93\t5,000/-\n" +
	"5\t2\t1\t1\t1\t1\t72\t90\t60\t12\t91\tLegal\n"

func TestParseTSV_WordRowsOnly(t *testing.T) {
	tokens, err := ParseTSV(strings.NewReader(sampleTSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(tokens), tokens)
	}
	first := tokens[0]
	if first.Text != "Processing" || first.X != 72 || first.Y != 100 || first.Page != 1 {
		t.Fatalf("first token = %+v", first)
	}
	last := tokens[3]
	if last.Text != "Legal" || last.Page != 2 {
		t.Fatalf("last token = %+v", last)
	}
}

func TestParseTSV_SkipsMalformedLines(t *testing.T) {
	in := "garbage line without tabs\n5\t1\t1\t1\t1\t1\t10\t20\t30\t12\t90\tok\n"
	tokens, err := ParseTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Text != "ok" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestParseTSV_Empty(t *testing.T) {
	tokens, err := ParseTSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %+v", tokens)
	}
}
