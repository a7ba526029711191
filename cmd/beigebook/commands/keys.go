package commands

import (
	"os"

	"beigebook/lib/fsutil"
	"beigebook/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	keysStart, keysEnd *int
	keysExisting       *bool
)

func init() {
	keysStart, keysEnd = yearFlags(keysCmd)
	keysExisting = keysCmd.Flags().Bool("existing", false, "Only list keys whose text file already exists.")
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys [--start <year>] [--end <year>] [--existing]",
	Short: "Lists the report keys of the configured range and the file each one is stored in.",
	Run: func(cmd *cobra.Command, args []string) {
		applyYears(cmd, keysStart, keysEnd)
		cal, err := cfg.Calendar()
		if err != nil {
			serviceutil.Fatal("invalid report range", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key", "Path", "Exists"})

		keys := cal.Enumerate(*keysExisting)
		for _, key := range keys {
			path := cal.PathFor(key)
			t.AppendRow(table.Row{key.String(), path, fsutil.Exists(path)})
		}
		t.AppendFooter(table.Row{"", "total", len(keys)})
		t.Render()
	},
}
