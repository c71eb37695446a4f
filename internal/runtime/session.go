package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/ports"
)

// Session is one user's walk through a workflow: the navigation history,
// the cursor into it, the form values entered so far and the editing state
// of the section on screen.
//
// A Session is not safe for concurrent use. Every transition runs to
// completion and either applies fully or leaves the session untouched,
// apart from the error flags set by a rejected Advance.
type Session struct {
	workflow *domain.Workflow
	errMsg   string

	history []domain.HistoryEntry
	cursor  int
	values  map[string]string
	fields  []domain.Field

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) { s.hooks = s.hooks.Merge(hooks) }
}

// WithInputErrorMessage sets the message shown next to empty required inputs.
func WithInputErrorMessage(msg string) Option {
	return func(s *Session) { s.errMsg = msg }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func newSession(wf *domain.Workflow, opts []Option) (*Session, error) {
	if wf == nil {
		return nil, errors.New("workflow is nil")
	}
	s := &Session{
		workflow: wf,
		errMsg:   domain.DefaultInputErrorMessage,
		values:   make(map[string]string),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSession starts a session at the index section of wf.
func NewSession(ctx context.Context, wf *domain.Workflow, opts ...Option) (*Session, error) {
	s, err := newSession(wf, opts)
	if err != nil {
		return nil, err
	}
	if _, ok := wf.Sections[wf.Index]; !ok {
		return nil, &domain.UnresolvedLinkError{Workflow: wf.Name, Link: wf.Index}
	}
	s.history = []domain.HistoryEntry{{Location: domain.Location(wf.Index), Tags: []string{}}}
	s.enter(ctx)
	return s, nil
}

// Restore rebuilds a session from its persisted state. Every location in the
// history must still resolve in wf, which may have been reloaded since the
// state was saved.
func Restore(ctx context.Context, wf *domain.Workflow, st *domain.SessionState, opts ...Option) (*Session, error) {
	s, err := newSession(wf, opts)
	if err != nil {
		return nil, err
	}
	if len(st.History) == 0 {
		return nil, fmt.Errorf("session %s has no history", st.ID)
	}
	if st.Cursor < 0 || st.Cursor >= len(st.History) {
		return nil, &domain.HistoryIndexError{Index: st.Cursor, Len: len(st.History)}
	}
	for _, h := range st.History {
		if _, ok := wf.Resolve(string(h.Location)); !ok {
			return nil, &domain.UnresolvedLinkError{Workflow: wf.Name, Link: string(h.Location)}
		}
	}

	restored := st.Clone()
	s.history = restored.History
	s.cursor = restored.Cursor
	s.values = restored.FormValues
	s.buildFields()
	flagged := make(map[string]bool, len(restored.Flagged))
	for _, id := range restored.Flagged {
		flagged[id] = true
	}
	for i := range s.fields {
		s.fields[i].HasError = flagged[s.fields[i].Input.ID]
	}
	s.logger.Debug("Session restored", "session_id", st.ID, "location", s.CurrentLocation(), "cursor", s.cursor)
	return s, nil
}

// State returns the persisted form of the session. Identity and timestamps
// are left for the caller to fill in.
func (s *Session) State() *domain.SessionState {
	st := &domain.SessionState{
		Workflow:   s.workflow.Name,
		History:    s.History(),
		Cursor:     s.cursor,
		FormValues: s.FormValues(),
	}
	for _, f := range s.fields {
		if f.HasError {
			st.Flagged = append(st.Flagged, f.Input.ID)
		}
	}
	return st
}

// Workflow returns the workflow the session walks.
func (s *Session) Workflow() *domain.Workflow { return s.workflow }

// InputErrorMessage returns the message shown next to empty required inputs.
func (s *Session) InputErrorMessage() string { return s.errMsg }

// CurrentLocation returns the location under the cursor.
func (s *Session) CurrentLocation() domain.Location {
	return s.history[s.cursor].Location
}

// History returns a copy of the navigation history.
func (s *Session) History() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.history))
	for i, h := range s.history {
		out[i] = h.Clone()
	}
	return out
}

// Cursor returns the index of the current history entry.
func (s *Session) Cursor() int { return s.cursor }

// FormValue returns the stored value for id.
func (s *Session) FormValue(id string) (string, bool) {
	v, ok := s.values[id]
	return v, ok
}

// FormValues returns a copy of every stored form value.
func (s *Session) FormValues() map[string]string {
	return maps.Clone(s.values)
}

// Fields returns a copy of the editing state of the current section.
func (s *Session) Fields() []domain.Field {
	return slices.Clone(s.fields)
}

// Elements returns the elements of the current section, or nil at an endpoint.
func (s *Session) Elements() domain.Section {
	loc := s.CurrentLocation()
	if loc.IsEndpoint() {
		return nil
	}
	return slices.Clone(s.workflow.Sections[string(loc)])
}

// Progressions returns the progressions of the current section in order.
// Advance takes an index into this list.
func (s *Session) Progressions() []domain.Progression {
	loc := s.CurrentLocation()
	if loc.IsEndpoint() {
		return nil
	}
	return s.workflow.Sections[string(loc)].Progressions()
}

// Advance takes the progression at index. Empty required inputs reject the
// advance with a *domain.RequiredInputError and only their error flags
// change. Otherwise the tags granted at the current section are recorded,
// any history past the cursor is discarded and the destination is appended.
func (s *Session) Advance(ctx context.Context, index int) error {
	from := s.CurrentLocation()
	progs := s.Progressions()
	if index < 0 || index >= len(progs) {
		return &domain.ProgressionIndexError{Location: from, Index: index, Count: len(progs)}
	}
	p := progs[index]
	dest, ok := s.workflow.Resolve(p.Link)
	if !ok {
		return &domain.UnresolvedLinkError{Workflow: s.workflow.Name, Link: p.Link}
	}

	if missing := s.flagMissing(); len(missing) > 0 {
		s.logger.Debug("Advance rejected", "location", from, "missing", missing)
		if s.hooks.OnValidationFailed != nil {
			s.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
				EventBase: s.event(domain.EventValidationFailed),
				Location:  from,
				Missing:   missing,
			})
		}
		return &domain.RequiredInputError{Location: from, IDs: missing}
	}

	tags := AccumulateTags(p.Tags, s.fields)
	truncated := len(s.history) - (s.cursor + 1)

	next := make([]domain.HistoryEntry, s.cursor+1, s.cursor+2)
	copy(next, s.history[:s.cursor+1])
	next[s.cursor] = domain.HistoryEntry{Location: from, Tags: tags}
	next = append(next, domain.HistoryEntry{Location: dest, Tags: []string{}})

	s.history = next
	s.cursor++
	s.logger.Debug("Advanced", "from", from, "to", dest, "tags", tags, "truncated", truncated)

	if s.hooks.OnAdvance != nil {
		s.hooks.OnAdvance(ctx, &domain.AdvanceEvent{
			EventBase: s.event(domain.EventAdvance),
			From:      from,
			To:        dest,
			Tags:      slices.Clone(tags),
			Truncated: truncated,
		})
	}
	s.enter(ctx)
	return nil
}

// Jump moves the cursor to a history entry without changing the history.
func (s *Session) Jump(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.history) {
		return &domain.HistoryIndexError{Index: index, Len: len(s.history)}
	}
	s.cursor = index
	s.logger.Debug("Jumped", "cursor", index, "location", s.CurrentLocation())

	if s.hooks.OnJump != nil {
		s.hooks.OnJump(ctx, &domain.LocationEvent{
			EventBase: s.event(domain.EventJump),
			Location:  s.CurrentLocation(),
			Cursor:    index,
		})
	}
	s.enter(ctx)
	return nil
}

// Edit sets the value of an input rendered in the current section. The
// value is stored immediately, so it survives jumping away and back. A value
// the input cannot hold fails with *domain.InvalidOptionError.
func (s *Session) Edit(id, value string) error {
	for i := range s.fields {
		if s.fields[i].Input.ID == id {
			if err := s.fields[i].Input.Check(value); err != nil {
				return err
			}
			s.fields[i].Value = value
			s.values[id] = value
			return nil
		}
	}
	return &domain.UnknownInputError{Location: s.CurrentLocation(), ID: id}
}

// RenderIfEndpoint renders the endpoint under the cursor. It returns nil
// when the cursor is on a section. Rendering never changes the session.
func (s *Session) RenderIfEndpoint() (*domain.RenderedEndpoint, error) {
	loc := s.CurrentLocation()
	if !loc.IsEndpoint() {
		return nil, nil
	}
	ep, ok := s.workflow.Endpoints[loc.Name()]
	if !ok {
		return nil, &domain.UnresolvedLinkError{Workflow: s.workflow.Name, Link: string(loc)}
	}

	out := &domain.RenderedEndpoint{Name: loc.Name(), Kind: ep.Kind, Text: ep.Text}
	if ep.Kind == domain.EndpointReport {
		out.Preamble = ep.Preamble
		out.Text = RenderReport(ep.Text, s.values, s.workflow.InputIDs(), s.history)
	}
	return out, nil
}

// Report returns the rendered report at the current report endpoint.
func (s *Session) Report(ctx context.Context) (string, error) {
	ep, err := s.RenderIfEndpoint()
	if err != nil {
		return "", err
	}
	if ep == nil || ep.Kind != domain.EndpointReport {
		return "", domain.ErrNotAtEndpoint
	}
	if s.hooks.OnReportRendered != nil {
		s.hooks.OnReportRendered(ctx, &domain.ReportEvent{
			EventBase: s.event(domain.EventReportRendered),
			Endpoint:  ep.Name,
			Tags:      FlattenTags(s.history),
		})
	}
	return ep.Text, nil
}

// CopyReport renders the current report and writes it to clip in the
// background. The returned channel yields the outcome once and is closed.
// Cancelling ctx abandons the copy.
func (s *Session) CopyReport(ctx context.Context, clip ports.Clipboard) <-chan error {
	done := make(chan error, 1)
	report, err := s.Report(ctx)
	if err != nil {
		done <- err
		close(done)
		return done
	}

	logger := s.logger
	go func() {
		defer close(done)
		err := clip.Copy(ctx, report)
		if err != nil {
			logger.Warn("Report copy failed", "err", err)
		}
		done <- err
	}()
	return done
}

// Breadcrumbs lists the history entries as jump targets. A history with a
// single entry has no breadcrumbs.
func (s *Session) Breadcrumbs() []domain.Breadcrumb {
	if len(s.history) <= 1 {
		return nil
	}
	out := make([]domain.Breadcrumb, len(s.history))
	for i, h := range s.history {
		out[i] = domain.Breadcrumb{
			Index:    i,
			Label:    h.Location.Name(),
			Location: h.Location,
			Current:  i == s.cursor,
		}
	}
	return out
}

// Snapshot returns a read model of the session for one render pass.
func (s *Session) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		Workflow:          s.workflow.Name,
		Location:          s.CurrentLocation(),
		Cursor:            s.cursor,
		History:           s.History(),
		Breadcrumbs:       s.Breadcrumbs(),
		InputErrorMessage: s.errMsg,
	}
	if snap.Location.IsEndpoint() {
		if ep, err := s.RenderIfEndpoint(); err == nil {
			snap.Endpoint = ep
		}
		return snap
	}
	snap.Elements = s.Elements()
	snap.Fields = s.Fields()
	snap.Progressions = s.Progressions()
	return snap
}

// enter rebuilds the editing state for the new current location.
func (s *Session) enter(ctx context.Context) {
	s.buildFields()
	if s.hooks.OnLocationEnter != nil {
		s.hooks.OnLocationEnter(ctx, &domain.LocationEvent{
			EventBase: s.event(domain.EventLocationEnter),
			Location:  s.CurrentLocation(),
			Cursor:    s.cursor,
		})
	}
}

// buildFields seeds one field per rendered input. A previously stored
// non-empty value wins over the configured default. Boolean inputs are
// normalized to "true" or "false". Seeded values are stored.
func (s *Session) buildFields() {
	s.fields = nil
	loc := s.CurrentLocation()
	if loc.IsEndpoint() {
		return
	}
	for _, in := range s.workflow.Sections[string(loc)].Inputs() {
		v := s.values[in.ID]
		if v == "" {
			v = in.DefaultValue()
		}
		if in.IsBoolean() && v != "true" {
			v = "false"
		}
		s.values[in.ID] = v
		s.fields = append(s.fields, domain.Field{Input: in, Value: v})
	}
}

// flagMissing sets the error flag of every empty required field and clears
// the others. It returns the ids of the flagged fields.
func (s *Session) flagMissing() []string {
	var missing []string
	for i := range s.fields {
		f := &s.fields[i]
		f.HasError = f.Value == "" && !f.Input.Optional
		if f.HasError {
			missing = append(missing, f.Input.ID)
		}
	}
	return missing
}

func (s *Session) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: s.now(), Type: t, Workflow: s.workflow.Name}
}
