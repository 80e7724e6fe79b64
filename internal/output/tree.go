package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn aligns file descriptions.
	descriptionColumn = 36
)

type treeNode struct {
	name     string
	desc     string
	isDir    bool
	children []*treeNode
}

// RenderFileTree renders files (relative path to description) under root,
// directories first, descriptions aligned.
func RenderFileTree(root string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	top := &treeNode{name: root, isDir: true}
	for path, desc := range files {
		parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
		cur := top
		for i, part := range parts {
			last := i == len(parts)-1
			var child *treeNode
			for _, c := range cur.children {
				if c.name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &treeNode{name: part, isDir: !last}
				cur.children = append(cur.children, child)
			}
			if last {
				child.desc = desc
			}
			cur = child
		}
	}
	sortTree(top)

	var sb strings.Builder
	sb.WriteString(StyleBold.Render(top.name + "/"))
	sb.WriteString("\n")
	renderChildren(&sb, top, "")
	return sb.String()
}

func sortTree(n *treeNode) {
	sort.Slice(n.children, func(i, j int) bool {
		if n.children[i].isDir != n.children[j].isDir {
			return n.children[i].isDir
		}
		return n.children[i].name < n.children[j].name
	})
	for _, c := range n.children {
		sortTree(c)
	}
}

func renderChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		line := prefix + connector + c.name
		if c.isDir {
			line += "/"
		}
		if c.desc != "" {
			padding := descriptionColumn - len([]rune(line))
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding) + StyleDim.Render(c.desc)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		renderChildren(sb, c, prefix+next)
	}
}
