package main

import (
	"io"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "formcheck",
		Short:         "Validate signup documents against the formkit signup schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolP("verbose", "v", false, "Log validation details to stderr")

	root.AddCommand(newValidateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of formcheck",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("formcheck version %s\n", version)
		},
	}
}
