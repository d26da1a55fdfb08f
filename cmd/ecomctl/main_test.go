package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCmd(t *testing.T, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := rootCmd.Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, cmd.Name())
	return cmd
}

func TestRootCommand(t *testing.T) {
	t.Run("đăng ký đủ lệnh con", func(t *testing.T) {
		for _, name := range []string{"seed", "backfill-category-ids", "expire-promotions"} {
			cmd := findCmd(t, name)
			assert.NotNil(t, cmd.RunE, name)
		}
	})

	t.Run("flag dùng chung", func(t *testing.T) {
		env := rootCmd.PersistentFlags().Lookup("env")
		require.NotNil(t, env)
		assert.Equal(t, "", env.DefValue)

		to := rootCmd.PersistentFlags().Lookup("timeout")
		require.NotNil(t, to)
		assert.Equal(t, "5m0s", to.DefValue)
	})

	t.Run("flag riêng của lệnh", func(t *testing.T) {
		seed := findCmd(t, "seed")
		f := seed.Flags().Lookup("file")
		require.NotNil(t, f)
		assert.Equal(t, "f", f.Shorthand)
		assert.NotNil(t, seed.Flags().Lookup("skip-admin"))

		assert.NotNil(t, findCmd(t, "expire-promotions").Flags().Lookup("stale-orders"))
	})
}

func TestCommandArgs(t *testing.T) {
	t.Run("từ chối tham số thừa", func(t *testing.T) {
		for _, name := range []string{"seed", "backfill-category-ids", "expire-promotions"} {
			cmd := findCmd(t, name)
			assert.Error(t, cmd.Args(cmd, []string{"extra"}), name)
			assert.NoError(t, cmd.Args(cmd, nil), name)
		}
	})

	t.Run("help không cần database", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"seed", "--help"})
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})

		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "SEED_SETTINGS_FILE")
	})
}
