// Command scribe submits an audio recording through the upload workflow from the
// command line and prints the resulting note.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "scribe",
	Short:         "Turn visit recordings into SOAP notes",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(submitCmd, openapiCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
