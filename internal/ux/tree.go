package ux

import (
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
)

// Node is one entry of a rendered hierarchy.
type Node struct {
	Label    string `json:"label"`
	Detail   string `json:"detail,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Render draws the node and its descendants as a tree.
func (n Node) Render(s Styles) string {
	return n.tree(s, true).String()
}

func (n Node) tree(s Styles, root bool) *tree.Tree {
	label := s.Value.Render(n.Label)
	if root {
		label = s.Title.Render(n.Label)
	}
	if n.Detail != "" {
		label += " " + s.Muted.Render(n.Detail)
	}
	t := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(s.Muted)
	for _, c := range n.Children {
		t.Child(c.tree(s, false))
	}
	return t
}

// Field is one line of a Record.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a titled list of key/value lines.
type Record struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Render implements Renderer.
func (r Record) Render(s Styles) string {
	width := 0
	for _, f := range r.Fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	var b strings.Builder
	b.WriteString(s.Title.Render(r.Title))
	for _, f := range r.Fields {
		b.WriteString("\n  ")
		b.WriteString(s.Key.Render(f.Key + ":" + strings.Repeat(" ", width-len(f.Key))))
		b.WriteString(" ")
		b.WriteString(s.Value.Render(f.Value))
	}
	return b.String()
}

var _ Renderer = Node{}
var _ Renderer = Record{}
