package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
)

// inchesPerMeter scales floor coordinates into Graphviz positions.
const inchesPerMeter = 0.6

const entryColor = "#C0392B"

// Options configures adjacency diagram rendering.
type Options struct {
	// Detailed adds the room id and type under each label.
	Detailed bool

	// Pinned fixes every node at its room center so the drawing keeps the
	// plan's arrangement. Otherwise neato lays the graph out freely.
	Pinned bool

	// Colors maps room ids to fill colors ("#RRGGBB").
	Colors map[string]string
}

// attrs is an ordered DOT attribute list.
type attrs []string

func (a attrs) add(key string, value any) attrs {
	return append(a, fmt.Sprintf("%s=%q", key, fmt.Sprint(value)))
}

func (a attrs) String() string { return "[" + strings.Join(a, ", ") + "]" }

// ToDOT writes g as an undirected Graphviz graph for the neato engine.
// Edges to the entry node are dashed.
func ToDOT(g *Graph, opts Options) string {
	var b strings.Builder
	b.WriteString("graph plan {\n")
	b.WriteString("  layout=neato; overlap=false; splines=true; bgcolor=\"transparent\";\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"DejaVu Sans\", fontsize=12];\n")

	if g.HasEntry() {
		a := attrs{}.add("shape", "circle").add("label", "").add("width", 0.2).add("fillcolor", entryColor)
		a = pin(a, g, EntryNode, opts.Pinned)
		fmt.Fprintf(&b, "  %q %s;\n", EntryNode, a)
	}
	for _, id := range g.Rooms {
		a := attrs{}.add("label", nodeLabel(g, id, opts.Detailed))
		if c := opts.Colors[id]; c != "" {
			a = a.add("fillcolor", c)
		}
		a = pin(a, g, id, opts.Pinned)
		fmt.Fprintf(&b, "  %q %s;\n", id, a)
	}

	for _, e := range g.Edges() {
		if e[0] == EntryNode || e[1] == EntryNode {
			fmt.Fprintf(&b, "  %q -- %q [style=dashed];\n", e[0], e[1])
			continue
		}
		fmt.Fprintf(&b, "  %q -- %q;\n", e[0], e[1])
	}
	b.WriteString("}\n")
	return b.String()
}

func pin(a attrs, g *Graph, id string, pinned bool) attrs {
	p, ok := g.Centers[id]
	if !pinned || !ok {
		return a
	}
	return a.add("pos", fmt.Sprintf("%.2f,%.2f!", p.X*inchesPerMeter, p.Y*inchesPerMeter))
}

func nodeLabel(g *Graph, id string, detailed bool) string {
	label := g.Labels[id]
	if label == "" {
		label = id
	}
	if detailed {
		label += fmt.Sprintf("\n%s (%s)", id, g.Kinds[id])
	}
	return label
}

// ColorsOf collects room fill colors from a result for [Options.Colors].
func ColorsOf(res *plan.Result) map[string]string {
	out := make(map[string]string)
	if res == nil {
		return out
	}
	for _, r := range res.Rooms {
		out[r.ID] = render.Fill(r)
	}
	return out
}

// RenderSVG lays out and renders DOT source with the embedded Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render graph: %w", err)
	}
	return stripPointSize(buf.Bytes()), nil
}

// Graphviz sizes the root element in points; dropping width and height
// lets the SVG scale to its container through the viewBox.
var pointSizeRe = regexp.MustCompile(`(<svg[^>]*?)\s+width="[0-9.]+pt"\s+height="[0-9.]+pt"`)

func stripPointSize(svg []byte) []byte {
	return pointSizeRe.ReplaceAll(svg, []byte("$1"))
}
