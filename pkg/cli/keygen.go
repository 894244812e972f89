package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AFDudley/briefcase-test-sub000/pkg/sshutil"
)

func newKeygenCmd() *cobra.Command {
	var (
		dir     string
		comment string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ed25519 key pair for host access",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := sshutil.GenerateKeyPair(dir, comment)
			if err != nil {
				return err
			}
			fmt.Printf("private: %s\npublic:  %s\n", kp.PrivateKeyPath, kp.PublicKeyPath)
			fmt.Printf("fingerprint: %s\n", kp.Fingerprint)
			fmt.Printf("%s\n", kp.AuthorizedKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "ssh", "directory for the key pair")
	cmd.Flags().StringVarP(&comment, "comment", "C", "bridgerun", "key comment")

	return cmd
}
