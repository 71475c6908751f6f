package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemzaz/tugboat/pkg/vcsurl"
)

func newConvertVCSURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert-vcs-url SSH_URL",
		Short: "Convert a git SSH remote URL to its HTTPS equivalent",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(vcsurl.FromGitSSHToHTTPS(args[0]))
		},
	}
}
