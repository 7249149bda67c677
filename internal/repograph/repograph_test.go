package repograph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDir struct {
	files []string
	dirs  []string
}

type fakeLister map[string]fakeDir

func (f fakeLister) List(path string) ([]string, []string, error) {
	d, ok := f[path]
	if !ok {
		return nil, nil, errors.New("no such directory")
	}

	return d.files, d.dirs, nil
}

func names(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestBuilder_Tree(t *testing.T) {
	many := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		many = append(many, fmt.Sprintf("test_%02d.py", i))
	}

	lister := fakeLister{
		"":           {files: []string{"setup.py", "README.md", ".gitignore"}, dirs: []string{"src", ".github", "tests"}},
		"src":        {files: []string{"main.py"}, dirs: []string{"my pkg"}},
		"src/my pkg": {files: []string{"agent.py"}},
		"tests":      {files: many},
		".github":    {files: []string{"ci.yml"}},
	}

	tree, err := NewBuilder(4, 10).Tree(lister)
	require.NoError(t, err)

	assert.Equal(t, "📦", tree.Name)
	assert.Equal(t, "root", tree.ID)
	assert.Equal(t, []string{"📄 README.md", "📄 setup.py", "📁 src", "📁 tests"}, names(tree.Children))

	src := tree.Children[2]
	assert.Equal(t, "src", src.ID)
	assert.Equal(t, []string{"📄 main.py", "📁 my pkg"}, names(src.Children))
	assert.Equal(t, "src/my_pkg", src.Children[1].ID)
	assert.Equal(t, "src/my_pkg/agent.py", src.Children[1].Children[0].ID)

	tests := tree.Children[3]
	require.Len(t, tests.Children, 1)
	assert.Equal(t, "📄 12 files", tests.Children[0].Name)
	assert.Equal(t, "tests_files", tests.Children[0].ID)
}

func TestBuilder_TreeDepthLimit(t *testing.T) {
	lister := fakeLister{
		"":      {dirs: []string{"a"}},
		"a":     {dirs: []string{"b"}},
		"a/b":   {dirs: []string{"c"}},
		"a/b/c": {files: []string{"deep.go"}},
	}

	tree, err := NewBuilder(2, 0).Tree(lister)
	require.NoError(t, err)

	a := tree.Children[0]
	require.Len(t, a.Children, 1)
	b := a.Children[0]
	assert.Equal(t, "📁 b", b.Name)
	assert.Empty(t, b.Children)
}

func TestBuilder_TreeListError(t *testing.T) {
	_, err := NewBuilder(0, 0).Tree(fakeLister{"": {dirs: []string{"missing"}}})
	assert.Error(t, err)
}

func TestBuilder_BuildBadURL(t *testing.T) {
	_, err := NewBuilder(0, 0).Build(context.Background(), "file:///definitely/not/a/repo")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	tree := &Node{Name: "📦", ID: "root", Children: []*Node{{Name: "📄 </script>.md", ID: "x"}}}

	page, err := RenderHTML(tree, "agent-kit")
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<title>Directory Structure - agent-kit</title>")
	assert.Contains(t, html, `"id":"root"`)
	assert.Equal(t, 2, strings.Count(html, "</script>"), "tree json must not close the script tag")
	assert.Contains(t, html, "d3.v7.min.js")
}

func TestRepoName(t *testing.T) {
	assert.Equal(t, "agent-kit", RepoName("https://github.com/acme/agent-kit"))
	assert.Equal(t, "agent-kit", RepoName("https://github.com/acme/agent-kit.git"))
	assert.Equal(t, "agent-kit", RepoName("https://github.com/acme/agent-kit/"))
}
