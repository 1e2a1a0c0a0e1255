package ux

import (
	"strings"
	"testing"
)

func TestNodeRender(t *testing.T) {
	n := Node{
		Label:  "Demo",
		Detail: "(project)",
		Children: []Node{
			{Label: "Extract", Detail: "(task)", Children: []Node{
				{Label: "run 0192", Children: []Node{{Label: "output 0193", Detail: "★★★★"}}},
			}},
			{Label: "Summarize", Detail: "(task)"},
		},
	}

	out := n.Render(NewStyles(true))
	for _, want := range []string{"Demo (project)", "Extract (task)", "run 0192", "output 0193 ★★★★", "Summarize (task)"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(strings.TrimRight(out, "\n"), "\n") + 1; lines != 5 {
		t.Errorf("expected 5 lines, got %d:\n%s", lines, out)
	}
	if strings.Index(out, "Extract") > strings.Index(out, "Summarize") {
		t.Errorf("children must keep their order:\n%s", out)
	}
}

func TestRecordRenderAlignsKeys(t *testing.T) {
	r := Record{Title: "output", Fields: []Field{{Key: "id", Value: "o1"}, {Key: "source", Value: "human"}}}
	out := r.Render(NewStyles(true))

	want := "output\n  id:     o1\n  source: human"
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}
