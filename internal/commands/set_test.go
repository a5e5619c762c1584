package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedActualsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "done"}
	addActualsFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestActualsFromFlags(t *testing.T) {
	actuals, err := actualsFromFlags(parsedActualsCmd(t, "--reps=8", "-w", "62.5"))
	require.NoError(t, err)
	require.NotNil(t, actuals.Reps)
	require.NotNil(t, actuals.Weight)
	assert.Equal(t, 8, *actuals.Reps)
	assert.Equal(t, 62.5, *actuals.Weight)

	actuals, err = actualsFromFlags(parsedActualsCmd(t, "--reps=0"))
	require.NoError(t, err)
	assert.Equal(t, 0, *actuals.Reps)
	assert.Nil(t, actuals.Weight)

	actuals, err = actualsFromFlags(parsedActualsCmd(t))
	require.NoError(t, err)
	assert.Nil(t, actuals.Reps)
	assert.Nil(t, actuals.Weight)
}

func TestActualsFromFlagsRejectsNegative(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative reps", []string{"--reps=-3"}, "invalid reps -3"},
		{"negative weight", []string{"--weight=-10"}, "invalid weight -10kg"},
		{"both negative", []string{"--reps=-3", "--weight=-10"}, "invalid reps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actualsFromFlags(parsedActualsCmd(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
