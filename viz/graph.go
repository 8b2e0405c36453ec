// ABOUTME: Graphviz rendering of the pipeline board and contract portfolio
// ABOUTME: Produces DOT (xdot) or SVG source from a snapshot
package viz

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
)

// Format selects the graph output encoding.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// ParseFormat validates a graph output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatDOT:
		return FormatDOT, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("invalid graph format: %s (valid: dot, svg)", s)
}

var stageColors = map[pipeline.Stage]string{
	pipeline.StageLead:             "lightgrey",
	pipeline.StageSalesOpportunity: "lightyellow",
	pipeline.StageActiveClient:     "lightgreen",
	pipeline.StageLostDeal:         "lightpink",
	pipeline.StageFormerClient:     "lightblue",
}

var priorityColors = map[string]string{
	models.PriorityCritical: "tomato",
	models.PriorityHigh:     "orange",
	models.PriorityMedium:   "lightyellow",
	models.PriorityLow:      "lightgrey",
}

// render builds a graph with fn and encodes it.
func render(ctx context.Context, format Format, fn func(*cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer closeQuietly("graphviz", gv)

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer closeQuietly("graph", graph)

	if err := fn(graph); err != nil {
		return "", err
	}

	gvFormat := graphviz.XDOT
	if format == FormatSVG {
		gvFormat = graphviz.SVG
	}
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, gvFormat, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func closeQuietly(what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", "what", what, "err", err)
	}
}

// GeneratePipelineGraph draws one node per stage, the allowed transitions
// between stages, and every lead or deal attached to its stage.
func GeneratePipelineGraph(ctx context.Context, board pipeline.Board, format Format) (string, error) {
	return render(ctx, format, func(graph *cgraph.Graph) error {
		graph.SetLabel("Sales Pipeline")
		graph.SetRankDir(cgraph.LRRank)

		stageNodes := make(map[pipeline.Stage]*cgraph.Node, len(pipeline.Stages))
		for _, stage := range pipeline.Stages {
			node, err := graph.CreateNodeByName("stage_" + string(stage))
			if err != nil {
				return fmt.Errorf("failed to create stage node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n(%d)", stage.Label(), board.Count(stage)))
			node.SetShape("box")
			node.SetStyle("filled")
			node.SetFillColor(stageColors[stage])
			stageNodes[stage] = node
		}

		for _, from := range pipeline.Stages {
			for _, to := range pipeline.Stages {
				if !pipeline.CanTransition(from, to) {
					continue
				}
				edge, err := graph.CreateEdgeByName(string(from)+"_"+string(to), stageNodes[from], stageNodes[to])
				if err != nil {
					return fmt.Errorf("failed to create transition edge: %w", err)
				}
				edge.SetStyle("bold")
			}
		}

		for _, lead := range board.Leads {
			node, err := graph.CreateNodeByName(fmt.Sprintf("lead_%d", lead.ID))
			if err != nil {
				return fmt.Errorf("failed to create lead node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n$%.0fK\n(%s)", lead.Prospect, lead.ProjectedOpportunity/1000, lead.Status))
			if err := attach(graph, node, stageNodes[pipeline.StageLead]); err != nil {
				return err
			}
		}

		for _, stage := range pipeline.Stages[1:] {
			for _, item := range board.Items(stage) {
				node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", item.ID))
				if err != nil {
					return fmt.Errorf("failed to create deal node: %w", err)
				}
				node.SetLabel(fmt.Sprintf("%s\n$%.0fK", item.Prospect, item.Amount/1000))
				node.SetShape("ellipse")
				node.SetStyle("filled")
				node.SetFillColor(stageColors[stage])
				if err := attach(graph, node, stageNodes[stage]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func attach(graph *cgraph.Graph, node, stage *cgraph.Node) error {
	edge, err := graph.CreateEdgeByName("in_stage", stage, node)
	if err != nil {
		return fmt.Errorf("failed to create edge: %w", err)
	}
	edge.SetStyle("dashed")
	edge.SetDir("none")
	return nil
}

// GenerateContractGraph groups contracts under their agency, colored by priority.
func GenerateContractGraph(ctx context.Context, contracts []models.GovContractItem, format Format) (string, error) {
	return render(ctx, format, func(graph *cgraph.Graph) error {
		graph.SetLabel("Government Contracts")
		graph.SetRankDir(cgraph.LRRank)

		agencies := make(map[string]*cgraph.Node)
		for _, c := range contracts {
			agency := c.Agency
			if agency == "" {
				agency = "Unknown agency"
			}
			agencyNode, ok := agencies[agency]
			if !ok {
				var err error
				agencyNode, err = graph.CreateNodeByName("agency_" + agency)
				if err != nil {
					return fmt.Errorf("failed to create agency node: %w", err)
				}
				agencyNode.SetLabel(agency)
				agencyNode.SetShape("box")
				agencies[agency] = agencyNode
			}

			node, err := graph.CreateNodeByName(fmt.Sprintf("contract_%d", c.ID))
			if err != nil {
				return fmt.Errorf("failed to create contract node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s\n(%s)", c.OpportunityNumber, c.Title, c.Status))
			node.SetShape("note")
			node.SetStyle("filled")
			color, ok := priorityColors[c.Priority]
			if !ok {
				color = "white"
			}
			node.SetFillColor(color)

			edge, err := graph.CreateEdgeByName("solicits", agencyNode, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(formatDeadline(c.ResponseDeadline))
		}
		return nil
	})
}

func formatDeadline(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return "due " + d.String()
}
