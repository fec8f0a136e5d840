package logging

import (
	"bytes"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logiface.LevelDebug)

	l.Warning().Str("entity", "delay_1").Int("tick", 42).Log("tick overrun")

	require.Contains(t, buf.String(), "tick overrun")
	require.Contains(t, buf.String(), "delay_1")
}

func TestNew_BelowLevelDiscarded(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logiface.LevelWarning)

	l.Debug().Log("should not appear")

	require.Empty(t, buf.String())
}
