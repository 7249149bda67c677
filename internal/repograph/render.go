package repograph

import (
	"bytes"
	"html/template"
)

var page = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Directory Structure - {{.Name}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; overflow: auto; height: 100vh; }
        h1 { color: #333; margin-bottom: 20px; }
        .node circle { fill: #fff; stroke: #4CAF50; stroke-width: 2px; }
        .node text { font: 14px sans-serif; }
        .link { fill: none; stroke: #ccc; stroke-width: 2px; }
        #tree { background: #f5f5f5; border-radius: 8px; padding: 20px; overflow: auto; }
    </style>
</head>
<body>
    <div id="tree"></div>
    <script>
        const treeData = {{.Tree}};

        function countNodes(node) {
            let count = 1;
            (node.children || []).forEach(function (child) { count += countNodes(child); });
            return count;
        }

        const width = Math.max(window.innerWidth - 100, 1200);
        const height = countNodes(treeData) * 20;
        const margin = {top: 20, right: 120, bottom: 20, left: 120};

        const layout = d3.tree()
            .size([height - margin.top - margin.bottom, width - margin.left - margin.right]);

        const svg = d3.select("#tree")
            .append("svg")
            .attr("width", width)
            .attr("height", height)
            .append("g")
            .attr("transform", "translate(" + margin.left + "," + margin.top + ")");

        const nodes = layout(d3.hierarchy(treeData));

        svg.selectAll(".link")
            .data(nodes.links())
            .enter()
            .append("path")
            .attr("class", "link")
            .attr("d", d3.linkHorizontal().x(function (d) { return d.y; }).y(function (d) { return d.x; }));

        const node = svg.selectAll(".node")
            .data(nodes.descendants())
            .enter()
            .append("g")
            .attr("class", "node")
            .attr("transform", function (d) { return "translate(" + d.y + "," + d.x + ")"; });

        node.append("circle").attr("r", 5);

        node.append("text")
            .attr("dy", ".35em")
            .attr("x", function (d) { return d.children ? -13 : 13; })
            .attr("text-anchor", function (d) { return d.children ? "end" : "start"; })
            .text(function (d) { return d.data.name; });
    </script>
</body>
</html>
`))

// RenderHTML отдает страницу с деревом, встроенным как JSON
func RenderHTML(tree *Node, repoName string) ([]byte, error) {
	var buf bytes.Buffer

	err := page.Execute(&buf, struct {
		Name string
		Tree *Node
	}{
		Name: repoName,
		Tree: tree,
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
