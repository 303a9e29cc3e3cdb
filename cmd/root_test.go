package cmd

import (
	"strings"
	"testing"

	"github.com/cristianoliveira/cansig/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestHelpTextListsCommandsInOrder(t *testing.T) {
	root := &cobra.Command{Use: "cansig"}
	root.AddCommand(
		&cobra.Command{Use: "version", Short: "Show version information"},
		&cobra.Command{Use: "edit MESSAGE_ID", Short: "Edit the signals of a message"},
		&cobra.Command{Use: "list", Short: "List messages and signals"},
	)

	text := helpText(root)
	assert.Contains(t, text, "USAGE:\n    cansig [COMMAND] [OPTIONS]")
	edit := strings.Index(text, "    edit MESSAGE_ID")
	list := strings.Index(text, "    list")
	ver := strings.Index(text, "    version")
	assert.True(t, edit >= 0 && edit < list && list < ver, text)
	assert.NotContains(t, text, "demo")
}

func TestSetupAppliesDBFlag(t *testing.T) {
	t.Setenv("CANSIG_CONFIG_DIR", t.TempDir())
	t.Setenv("CANSIG_STATE_DIR", t.TempDir())
	dbPath = "/tmp/custom.db"
	t.Cleanup(func() { dbPath = "" })

	assert.NoError(t, setup())
	assert.Equal(t, "/tmp/custom.db", config.Get("db_path", ""))
}
