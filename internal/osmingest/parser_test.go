package osmingest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMalformedInputReturnsError(t *testing.T) {
	garbage := bytes.NewReader([]byte("this is not a valid OSM PBF stream"))

	_, err := Parse(context.Background(), garbage)
	assert.Error(t, err)
}

func TestParseEmptyStreamReturnsError(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}
