// Package repograph строит дерево файлов репозитория и рисует его страницей на D3.
package repograph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	DefaultMaxDepth = 4
	DefaultMaxFiles = 10

	rootID = "root"
)

type Node struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Children []*Node `json:"children,omitempty"`
}

// Lister возвращает файлы и директории по пути относительно корня репозитория
type Lister interface {
	List(path string) (files, dirs []string, err error)
}

type Builder struct {
	MaxDepth int
	MaxFiles int
}

func NewBuilder(maxDepth, maxFiles int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	return &Builder{MaxDepth: maxDepth, MaxFiles: maxFiles}
}

// Build клонирует репозиторий в память (depth 1) и строит дерево последнего коммита
func (b *Builder) Build(ctx context.Context, repoURL string) (*Node, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", repoURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD of %s: %w", repoURL, err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	return b.Tree(gitTree{root: tree})
}

// Tree строит дерево по листингу. Скрытые файлы пропускаются, файлы идут перед
// директориями, директории глубже MaxDepth не раскрываются
func (b *Builder) Tree(l Lister) (*Node, error) {
	root := &Node{Name: "📦", ID: rootID}

	if err := b.fill(l, root, "", 0); err != nil {
		return nil, err
	}

	return root, nil
}

func (b *Builder) fill(l Lister, parent *Node, path string, depth int) error {
	files, dirs, err := l.List(path)
	if err != nil {
		return fmt.Errorf("list %q: %w", path, err)
	}

	files = visible(files)
	dirs = visible(dirs)

	if len(files) > b.MaxFiles {
		parent.Children = append(parent.Children, &Node{
			Name: fmt.Sprintf("📄 %d files", len(files)),
			ID:   parent.ID + "_files",
		})
	} else {
		for _, f := range files {
			parent.Children = append(parent.Children, &Node{
				Name: "📄 " + f,
				ID:   nodeID(join(path, f)),
			})
		}
	}

	for _, d := range dirs {
		child := &Node{Name: "📁 " + d, ID: nodeID(join(path, d))}
		parent.Children = append(parent.Children, child)

		if depth+1 >= b.MaxDepth {
			continue
		}

		if err := b.fill(l, child, join(path, d), depth+1); err != nil {
			return err
		}
	}

	return nil
}

func visible(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.HasPrefix(n, ".") {
			out = append(out, n)
		}
	}

	sort.Strings(out)

	return out
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}

	return dir + "/" + name
}

func nodeID(path string) string {
	return strings.ReplaceAll(path, " ", "_")
}

type gitTree struct {
	root *object.Tree
}

func (g gitTree) List(path string) (files, dirs []string, err error) {
	tree := g.root
	if path != "" {
		if tree, err = g.root.Tree(path); err != nil {
			return nil, nil, err
		}
	}

	for _, e := range tree.Entries {
		switch e.Mode {
		case filemode.Dir:
			dirs = append(dirs, e.Name)
		case filemode.Submodule:
			// сабмодули в shallow-клоне пустые
		default:
			files = append(files, e.Name)
		}
	}

	return files, dirs, nil
}

// RepoName - последний сегмент URL репозитория
func RepoName(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}
