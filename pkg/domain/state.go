package domain

// HistoryEntry is one visited location and the tags finalized when the user
// advanced past it. The entry for the current location carries no tags until
// the next advance.
type HistoryEntry struct {
	Location Location `json:"location"`
	Tags     []string `json:"tags"`
}

// Clone returns a deep copy of the entry.
func (h HistoryEntry) Clone() HistoryEntry {
	return HistoryEntry{Location: h.Location, Tags: append([]string{}, h.Tags...)}
}

// Field is the transient editing state of one rendered input.
type Field struct {
	Input    InputElement `json:"input"`
	Value    string       `json:"value"`
	HasError bool         `json:"has_error"`
}

// RenderedEndpoint is the displayable form of the endpoint at the current location.
type RenderedEndpoint struct {
	Name string       `json:"name"`
	Kind EndpointKind `json:"kind"`
	// Preamble is only set for reports.
	Preamble string `json:"preamble,omitempty"`
	// Text is the full report (interpolated text and tag block) or the instruction text.
	Text string `json:"text"`
}

// Breadcrumb is a jump target derived from the history.
type Breadcrumb struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	Location Location `json:"location"`
	Current  bool     `json:"current"`
}

// Snapshot is an immutable read model of a session for one render pass.
type Snapshot struct {
	Workflow          string            `json:"workflow"`
	Location          Location          `json:"location"`
	Cursor            int               `json:"cursor"`
	History           []HistoryEntry    `json:"history"`
	Breadcrumbs       []Breadcrumb      `json:"breadcrumbs,omitempty"`
	Elements          Section           `json:"elements,omitempty"`
	Fields            []Field           `json:"fields,omitempty"`
	Progressions      []Progression     `json:"progressions,omitempty"`
	Endpoint          *RenderedEndpoint `json:"endpoint,omitempty"`
	InputErrorMessage string            `json:"input_err_msg"`
}

// Terminal reports whether the snapshot is at an endpoint.
func (s *Snapshot) Terminal() bool {
	return s.Location.IsEndpoint()
}
