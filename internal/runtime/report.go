package runtime

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
)

// TrailerHeading labels the block that carries the encoded tag trail.
const TrailerHeading = "Tribble internal data"

const tagDelimiter = ","

var (
	placeholder  = regexp.MustCompile(`\$\{([^}]*)\}`)
	trailerBlock = regexp.MustCompile(`(?s)<section>\n<details>` + regexp.QuoteMeta(TrailerHeading) + `</details>\n\n(.*?)\n\n</section>\s*$`)
)

// Interpolate replaces each ${id} placeholder in text with values[id].
// Ids declared by the workflow but never set become empty. Any other
// placeholder is left as written. Substituted values are not scanned again.
func Interpolate(text string, values map[string]string, declared map[string]bool) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		id := m[2 : len(m)-1]
		if v, ok := values[id]; ok {
			return v
		}
		if declared[id] {
			return ""
		}
		return m
	})
}

// EncodeTrailer flattens the history tags, joins them with commas and
// encodes the result as standard base64.
func EncodeTrailer(history []domain.HistoryEntry) string {
	joined := strings.Join(FlattenTags(history), tagDelimiter)
	return base64.StdEncoding.EncodeToString([]byte(joined))
}

// DecodeTrailer reverses EncodeTrailer. An empty trailer decodes to no tags.
func DecodeTrailer(encoded string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode tag trailer: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return strings.Split(string(raw), tagDelimiter), nil
}

// RenderReport builds the report text: the interpolated template, a blank
// line, then the delimited block holding the encoded tag trail.
func RenderReport(template string, values map[string]string, declared map[string]bool, history []domain.HistoryEntry) string {
	return fmt.Sprintf("%s\n\n<section>\n<details>%s</details>\n\n%s\n\n</section>",
		Interpolate(template, values, declared), TrailerHeading, EncodeTrailer(history))
}

// ExtractTrailer finds the encoded tag trail at the end of a rendered report.
func ExtractTrailer(report string) (string, bool) {
	m := trailerBlock.FindStringSubmatch(report)
	if m == nil {
		return "", false
	}
	return m[1], true
}
