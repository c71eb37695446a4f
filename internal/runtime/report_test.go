package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tribble/pkg/domain"
)

func TestInterpolate(t *testing.T) {
	values := map[string]string{"name": "Ada", "name2": "Lovelace", "tpl": "${name}"}
	declared := map[string]bool{"name": true, "name2": true, "tpl": true, "unset": true}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"prefix ids stay distinct", "${name} ${name2}", "Ada Lovelace"},
		{"repeated placeholder", "${name}/${name}", "Ada/Ada"},
		{"declared but unset", "[${unset}]", "[]"},
		{"undeclared left alone", "${other} and ${}", "${other} and ${}"},
		{"values are not rescanned", "${tpl}", "${name}"},
		{"no placeholders", "plain $name {name}", "plain $name {name}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.text, values, declared))
		})
	}
}

func TestTrailer_RoundTrip(t *testing.T) {
	history := []domain.HistoryEntry{
		{Location: "a", Tags: []string{"bug", "ui"}},
		{Location: "b", Tags: []string{"bug"}},
		{Location: "endpoint:e", Tags: []string{}},
	}
	encoded := EncodeTrailer(history)
	assert.Equal(t, "YnVnLHVpLGJ1Zw==", encoded)

	tags, err := DecodeTrailer(encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"bug", "ui", "bug"}, tags)
}

func TestTrailer_Empty(t *testing.T) {
	encoded := EncodeTrailer([]domain.HistoryEntry{{Location: "a", Tags: []string{}}})
	assert.Equal(t, "", encoded)

	tags, err := DecodeTrailer(encoded)
	require.NoError(t, err)
	assert.Nil(t, tags)
}

func TestDecodeTrailer_Invalid(t *testing.T) {
	_, err := DecodeTrailer("not base64!")
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	history := []domain.HistoryEntry{{Location: "s", Tags: []string{"x"}}}
	got := RenderReport("Hello ${who}", map[string]string{"who": "world"}, nil, history)

	assert.Equal(t, "Hello world\n\n<section>\n<details>Tribble internal data</details>\n\neA==\n\n</section>", got)

	encoded, ok := ExtractTrailer(got)
	require.True(t, ok)
	assert.Equal(t, "eA==", encoded)
}

func TestExtractTrailer_Missing(t *testing.T) {
	_, ok := ExtractTrailer("just text")
	assert.False(t, ok)

	encoded, ok := ExtractTrailer(RenderReport("no tags", nil, nil, nil))
	assert.True(t, ok)
	assert.Equal(t, "", encoded)
}
