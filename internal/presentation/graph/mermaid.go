package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.Location
	Current domain.Location
}

// OverlayFromHistory marks every history entry as visited and the entry
// under the cursor as current.
func OverlayFromHistory(history []domain.HistoryEntry, cursor int) *GraphOverlay {
	o := &GraphOverlay{}
	for i, h := range history {
		o.Visited = append(o.Visited, h.Location)
		if i == cursor {
			o.Current = h.Location
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of a workflow.
// It applies semantic styling:
// - Index section: ((Circle))
// - Section: [Rectangle]
// - Report endpoint: [[Subroutine]]
// - Instructional endpoint: ([Stadium])
// Progressions become edges labelled with their text and static tags.
// Links that name nothing point at a node styled as missing.
func GenerateMermaid(wf *domain.Workflow, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	missing := make(map[string]bool)
	for _, name := range wf.SectionNames() {
		safeID := sanitizeMermaidID(name)
		opener, closer := "[", "]"
		if name == wf.Index {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(name), closer)

		for _, p := range wf.Sections[name].Progressions() {
			loc, ok := wf.Resolve(p.Link)
			target := locationID(loc)
			if !ok {
				missing[p.Link] = true
			}
			label := p.Text
			if len(p.Tags) > 0 {
				label += " #" + strings.Join(p.Tags, " #")
			}
			arrow := "-->"
			if loc.IsEndpoint() {
				arrow = "==>"
			}
			fmt.Fprintf(&sb, "    %s %s|\"%s\"| %s\n", safeID, arrow, escapeLabel(label), target)
		}
	}

	for _, name := range wf.EndpointNames() {
		safeID := locationID(domain.EndpointLocation(name))
		opener, closer := "([", "])"
		if wf.Endpoints[name].Kind == domain.EndpointReport {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(name), closer)
	}

	if len(missing) > 0 {
		sb.WriteString("\n    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray: 5 5,color:#000;\n")
		for _, link := range slices.Sorted(maps.Keys(missing)) {
			fmt.Fprintf(&sb, "    class %s missing;\n", locationID(domain.Location(link)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, loc := range overlay.Visited {
			safeID := locationID(loc)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", locationID(overlay.Current))
		}
	}

	return sb.String()
}

// locationID keeps sections and endpoints of the same name apart.
func locationID(loc domain.Location) string {
	if loc.IsEndpoint() {
		return "endpoint_" + sanitizeMermaidID(loc.Name())
	}
	return sanitizeMermaidID(string(loc))
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
