package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{skipWireAnnotation: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("racg version %s\n", version)
		if long, _ := cmd.Flags().GetBool("long"); long { //nolint:errcheck // flag is registered in init
			cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			cmd.Printf("  revision: %s\n", vcsRevision())
		}
	},
}

func init() {
	versionCmd.Flags().Bool("long", false, "also print Go runtime and VCS revision")
	rootCmd.AddCommand(versionCmd)
}

// vcsRevision returns the commit stamped into the binary by the go tool.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if rev == "" {
		return "unknown"
	}
	return rev + dirty
}
