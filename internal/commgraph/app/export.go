package app

// VizNode: d3 force-graph용 노드 (크기 = 통신량 + 1)
type VizNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Role  string `json:"role"`
	Value int    `json:"value"`
}

type VizLink struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Pattern string `json:"pattern"`
	Value   int    `json:"value"`
}

type VizGraph struct {
	Nodes []VizNode `json:"nodes"`
	Links []VizLink `json:"links"`
}

// ToVizFormat: 그래프 스냅샷을 시각화 형식으로 투영
func (g *CommunicationGraph) ToVizFormat() *VizGraph {
	viz := &VizGraph{
		Nodes: make([]VizNode, 0, len(g.Nodes)),
		Links: make([]VizLink, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		viz.Nodes = append(viz.Nodes, VizNode{
			ID:    string(n.Address),
			Label: n.Name,
			Group: n.Protocol,
			Role:  string(n.Role),
			Value: n.CommunicationCount + 1,
		})
	}
	for _, e := range g.Edges {
		viz.Links = append(viz.Links, VizLink{
			Source:  string(e.Source),
			Target:  string(e.Target),
			Pattern: string(e.Pattern),
			Value:   len(e.CalledFunctions) + 1,
		})
	}
	return viz
}
