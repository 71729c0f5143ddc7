package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_RegistersEveryEngineSubcommand(t *testing.T) {
	// GIVEN the root command's registered subcommand tree
	// WHEN we look up each engine's subcommand by name
	// THEN all six are present
	for _, name := range []string{"pack", "sulfate", "fem", "poredist", "dryout", "stats"} {
		cmd, _, err := rootCmd.Find([]string{name})
		assert.NoError(t, err, "command %q must be discoverable", name)
		assert.Equal(t, name, cmd.Name(), "expected %q subcommand", name)
	}
}

func TestPackCmd_RequiredFlagsAreRegistered(t *testing.T) {
	// GIVEN the pack command's flags
	gridFlag := packCmd.Flags().Lookup("grid")
	configFlag := packCmd.Flags().Lookup("config")

	// THEN both required input flags exist
	assert.NotNil(t, gridFlag, "--grid flag must be registered")
	assert.NotNil(t, configFlag, "--config flag must be registered")
}

func TestDryoutCmd_DefaultCubeSizeIsOddAndAboveFloor(t *testing.T) {
	// GIVEN the dryout command's cube-size flag
	flag := dryoutCmd.Flags().Lookup("cube-size")
	assert.NotNil(t, flag, "--cube-size flag must be registered")

	// THEN its default is a sane, odd, >= CubeMin value (matches probe.CubeMin)
	assert.Equal(t, "7", flag.DefValue)
}
