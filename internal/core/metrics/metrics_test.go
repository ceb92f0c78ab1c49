package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	assert.NotPanics(t, Register)
	assert.NotPanics(t, Register)

	Callbacks.WithLabelValues("ok").Inc()

	families, err := Registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "superfaktura_callbacks_total")
	assert.GreaterOrEqual(t, testutil.ToFloat64(Callbacks.WithLabelValues("ok")), 1.0)
}
