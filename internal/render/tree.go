package render

import (
	"path"
	"sort"
	"strings"

	"github.com/chmouel/lazystatus/internal/models"
)

// TreeNode is a directory or file in the status tree.
type TreeNode struct {
	Path        string                    // Full path (e.g., "internal/git" or "internal/git/service.go")
	File        *models.FileStatusSummary // nil for directories
	Children    []*TreeNode               // nil for files
	Compression int                       // Number of compressed path segments (e.g., "a/b" = 1)
	Depth       int
}

// BuildTree groups file entries by directory, directories sorted first.
func BuildTree(files []models.FileStatusSummary) *TreeNode {
	root := &TreeNode{Path: ""}
	if len(files) == 0 {
		return root
	}

	root.Children = make([]*TreeNode, 0)
	childrenByPath := make(map[string]*TreeNode)

	for i := range files {
		file := &files[i]
		parts := strings.Split(strings.TrimSuffix(file.Path, "/"), "/")

		current := root
		for j := range parts {
			isFile := j == len(parts)-1
			pathSoFar := strings.Join(parts[:j+1], "/")

			if existing, ok := childrenByPath[pathSoFar]; ok && !isFile {
				current = existing
				continue
			}

			node := &TreeNode{Path: pathSoFar}
			if isFile {
				node.File = file
			} else {
				node.Children = make([]*TreeNode, 0)
				childrenByPath[pathSoFar] = node
			}
			current.Children = append(current.Children, node)
			current = node
		}
	}

	sortTree(root)
	compressTree(root)
	return root
}

// sortTree orders nodes: directories first, then alphabetically.
func sortTree(node *TreeNode) {
	if node == nil || node.Children == nil {
		return
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		iIsDir := node.Children[i].IsDir()
		jIsDir := node.Children[j].IsDir()
		if iIsDir != jIsDir {
			return iIsDir
		}
		return node.Children[i].Path < node.Children[j].Path
	})

	for _, child := range node.Children {
		sortTree(child)
	}
}

// compressTree squashes single-child directory chains (a/b/c becomes one node).
func compressTree(node *TreeNode) {
	if node == nil {
		return
	}

	for _, child := range node.Children {
		compressTree(child)
	}

	for i, child := range node.Children {
		for child.IsDir() && len(child.Children) == 1 && child.Children[0].IsDir() {
			grandchild := child.Children[0]
			grandchild.Compression = child.Compression + 1
			node.Children[i] = grandchild
			child = grandchild
		}
	}
}

// Flatten returns the nodes in display order with their depth set.
func (n *TreeNode) Flatten() []*TreeNode {
	return flatten(n, 0)
}

func flatten(node *TreeNode, depth int) []*TreeNode {
	if node == nil {
		return nil
	}

	result := make([]*TreeNode, 0)
	childDepth := depth
	if node.Path != "" {
		nodeCopy := *node
		nodeCopy.Depth = depth
		result = append(result, &nodeCopy)
		childDepth = depth + 1
	}

	for _, child := range node.Children {
		result = append(result, flatten(child, childDepth)...)
	}
	return result
}

// IsDir returns true if this node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.File == nil
}

// Name returns the display name, keeping compressed directory segments.
func (n *TreeNode) Name() string {
	if n.IsDir() && n.Compression > 0 {
		parts := strings.Split(n.Path, "/")
		if len(parts) > n.Compression {
			return strings.Join(parts[len(parts)-n.Compression-1:], "/")
		}
	}
	return path.Base(n.Path)
}

// CollectFiles returns every file entry under this node.
func (n *TreeNode) CollectFiles() []*models.FileStatusSummary {
	var files []*models.FileStatusSummary
	if n.File != nil {
		files = append(files, n.File)
	}
	for _, child := range n.Children {
		files = append(files, child.CollectFiles()...)
	}
	return files
}
