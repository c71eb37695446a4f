package runtime

import "github.com/aretw0/tribble/pkg/domain"

// AccumulateTags merges the static tags of a progression with the tags
// granted by the current values of the section's fields. Tags keep the
// order in which they first appear; duplicates collapse.
func AccumulateTags(static []string, fields []domain.Field) []string {
	out := make([]string, 0, len(static))
	seen := make(map[string]bool, len(static))
	add := func(tags []string) {
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}

	add(static)
	for _, f := range fields {
		add(FieldTags(f))
	}
	return out
}

// FieldTags returns the tags one field grants with its current value.
// Select options grant their own tags and boolean inputs grant theirs when
// the value is "true". Other inputs never grant tags.
func FieldTags(f domain.Field) []string {
	switch {
	case f.Input.Select != nil:
		table := f.Input.Select.OptionTags()
		var tags []string
		for _, choice := range f.Input.Select.Split(f.Value) {
			tags = append(tags, table[choice]...)
		}
		return tags
	case f.Input.IsBoolean() && f.Value == "true":
		return f.Input.TextLike.Tags
	}
	return nil
}

// FlattenTags concatenates the tags of every history entry in order.
// Tags granted by different sections are kept even when equal.
func FlattenTags(history []domain.HistoryEntry) []string {
	var out []string
	for _, h := range history {
		out = append(out, h.Tags...)
	}
	return out
}
