package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/fswatch/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(&buf), "NO_COLOR wins over FORCE_COLOR")

	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfile(&buf))

	t.Setenv("FORCE_COLOR", "")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(&buf), "buffers are not terminals")
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf)
	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_Nil(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
