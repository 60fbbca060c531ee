package pretty_print

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuietSuppressesNonErrors(t *testing.T) {
	viper.Set("output.quiet", true)
	t.Cleanup(func() { viper.Set("output.quiet", false) })

	for _, lvl := range []PrintLevel{OkLvl, InfoLvl, WarnLvl, DebugLvl} {
		n, err := PrettyPrint(lvl, "share provisioned")
		require.Nil(t, err)
		assert.Zero(t, n)
	}
}

func TestQuietKeepsErrors(t *testing.T) {
	viper.Set("output.quiet", true)
	t.Cleanup(func() { viper.Set("output.quiet", false) })

	n, err := PrettyPrint(ErrLvl, "share not provisioned")
	require.Nil(t, err)
	assert.NotZero(t, n)
}
