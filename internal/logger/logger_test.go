package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVerbosity(t *testing.T) {
	defer SetVerbosity(int(Info))

	for _, lvl := range []Level{Error, Info, Debug, Trace} {
		SetVerbosity(int(lvl))
		assert.Equal(t, lvl, Verbosity())
	}

	SetVerbosity(-3)
	assert.Equal(t, Error, Verbosity())

	SetVerbosity(9)
	assert.Equal(t, Trace, Verbosity())
}
