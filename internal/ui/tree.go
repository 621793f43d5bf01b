package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/srtdog64/TemplateForge/internal/structure"
)

var (
	styleRoot   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")).Bold(true)
	styleFolder = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	styleFile   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))
	styleBranch = lipgloss.NewStyle().Foreground(lipgloss.Color("#636363"))
)

// node is one path segment of a plan.
type node struct {
	name     string
	dir      bool
	children []*node
	index    map[string]*node
}

func (n *node) child(name string, dir bool) *node {
	if c, ok := n.index[name]; ok {
		c.dir = c.dir || dir
		return c
	}
	c := &node{name: name, dir: dir, index: map[string]*node{}}
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

func (n *node) add(path string, dir bool) {
	parts := strings.Split(path, "/")
	cur := n
	for i, part := range parts {
		cur = cur.child(part, dir || i < len(parts)-1)
	}
}

// PlanTree renders plan as a directory tree rooted at its module folder.
// Entries keep plan order; folders are suffixed with "/".
func PlanTree(plan structure.Plan) string {
	root := &node{name: plan.ModuleName, dir: true, index: map[string]*node{}}
	prefix := plan.ModuleName + "/"
	for _, f := range plan.Folders {
		root.add(strings.TrimPrefix(f, prefix), true)
	}
	for _, f := range plan.Files {
		root.add(strings.TrimPrefix(f, prefix), false)
	}

	t := tree.Root(styleRoot.Render(plan.ModuleName + "/")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleBranch)
	for _, c := range root.children {
		t.Child(subtree(c))
	}
	return t.String()
}

func subtree(n *node) any {
	if !n.dir {
		return styleFile.Render(n.name)
	}
	t := tree.Root(styleFolder.Render(n.name + "/")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleBranch)
	for _, c := range n.children {
		t.Child(subtree(c))
	}
	return t
}

// Plan prints the tree for plan with a summary line.
func (p *Printer) Plan(plan structure.Plan) {
	p.printf("%s\n", PlanTree(plan))
	p.Info(pluralCount(len(plan.Folders), "folder") + ", " + pluralCount(len(plan.Files), "file"))
}

func pluralCount(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
