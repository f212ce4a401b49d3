package app

import (
	"encoding/xml"
	"strings"

	"github.com/shopspring/decimal"
)

// VizNode / VizLink: force-directed 시각화용 범용 형태
// group = 프로토콜, label = 컨트랙트 이름
type VizNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
}

type VizLink struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Value    int    `json:"value"`
	Function string `json:"function,omitempty"`
}

type VizGraph struct {
	Nodes []VizNode `json:"nodes"`
	Links []VizLink `json:"links"`
}

// ToVizFormat: 링크 value는 함수 메타데이터 없으면 1, 있으면 2
func (g *CodeGraph) ToVizFormat() *VizGraph {
	viz := &VizGraph{
		Nodes: make([]VizNode, 0, len(g.Nodes)),
		Links: make([]VizLink, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		viz.Nodes = append(viz.Nodes, VizNode{
			ID:    string(n.Address),
			Label: n.Name,
			Group: n.Protocol,
		})
	}
	for _, e := range g.Edges {
		value := 1
		if e.Function != "" {
			value = 2
		}
		viz.Links = append(viz.Links, VizLink{
			Source:   string(e.Source),
			Target:   string(e.Target),
			Type:     string(e.RelationshipType),
			Value:    value,
			Function: e.Function,
		})
	}
	return viz
}

// Stats: 저장해 둔 스냅샷에서 통계 재계산 (빌더 없이도 서빙 가능)
func (g *CodeGraph) Stats() GraphStats {
	stats := GraphStats{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
		EdgeTypes: make(map[string]int),
	}
	for _, e := range g.Edges {
		stats.EdgeTypes[string(e.RelationshipType)]++
	}
	avg := decimal.Zero
	if stats.NodeCount > 0 {
		avg = decimal.NewFromInt(int64(stats.EdgeCount)).
			Div(decimal.NewFromInt(int64(stats.NodeCount))).
			Round(4)
	}
	stats.AvgEdgesPerNode = avg.String()
	return stats
}

// ToGraphML: 주소를 노드 id로 쓰는 directed GraphML 문서
// 속성 문자열은 전부 XML 이스케이프
func (g *CodeGraph) ToGraphML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<graphml xmlns="http://graphml.graphdrawing.org/xmlns">` + "\n")
	b.WriteString(`  <key id="name" for="node" attr.name="name" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="protocol" for="node" attr.name="protocol" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="blockchain" for="node" attr.name="blockchain" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="relationship" for="edge" attr.name="relationship" attr.type="string"/>` + "\n")
	b.WriteString(`  <graph id="code_graph" edgedefault="directed">` + "\n")

	for _, n := range g.Nodes {
		b.WriteString(`    <node id="` + escapeXML(string(n.Address)) + `">` + "\n")
		b.WriteString(`      <data key="name">` + escapeXML(n.Name) + `</data>` + "\n")
		b.WriteString(`      <data key="protocol">` + escapeXML(n.Protocol) + `</data>` + "\n")
		b.WriteString(`      <data key="blockchain">` + escapeXML(n.Blockchain) + `</data>` + "\n")
		b.WriteString(`    </node>` + "\n")
	}
	for _, e := range g.Edges {
		b.WriteString(`    <edge source="` + escapeXML(string(e.Source)) + `" target="` + escapeXML(string(e.Target)) + `">` + "\n")
		b.WriteString(`      <data key="relationship">` + escapeXML(string(e.RelationshipType)) + `</data>` + "\n")
		b.WriteString(`    </edge>` + "\n")
	}

	b.WriteString("  </graph>\n</graphml>\n")
	return b.String()
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
