package openaivision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_PlainJSON(t *testing.T) {
	parsed, err := parseResponse(`{"confidence": 0.85, "elements": [{"type": "button", "label": "Save"}]}`)

	require.NoError(t, err)
	assert.Equal(t, 0.85, parsed.Confidence)
	require.Len(t, parsed.Elements, 1)
	assert.Equal(t, "button", parsed.Elements[0].Type)
}

func TestParseResponse_ProseAroundJSON(t *testing.T) {
	content := "Here are the elements I found:\n```json\n" +
		`{"confidence": 0.7, "elements": []}` +
		"\n```\nLet me know if you need more."

	parsed, err := parseResponse(content)

	require.NoError(t, err)
	assert.Equal(t, 0.7, parsed.Confidence)
}

func TestParseResponse_NoJSON(t *testing.T) {
	_, err := parseResponse("I cannot analyze this image.")
	assert.Error(t, err)
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := parseResponse(`{"confidence": oops}`)
	assert.Error(t, err)
}
