package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storagegate/devauth/authority"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Ask the authority about one token",
	Long:  `Validates a token for an account once, bypassing the cache. Exits non-zero unless the token is accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")
		token, _ := cmd.Flags().GetString("token")

		client, err := authority.New(cfg.AuthorityOptions()...)
		if err != nil {
			return fmt.Errorf("invalid authority settings: %w", err)
		}
		return runCheck(cmd, client, account, token)
	},
}

func init() {
	checkCmd.Flags().String("account", "", "Account the token should belong to")
	checkCmd.Flags().String("token", "", "Token to validate")
	_ = checkCmd.MarkFlagRequired("account")
	_ = checkCmd.MarkFlagRequired("token")
}

var errNotAccepted = errors.New("token not accepted")

func runCheck(cmd *cobra.Command, client *authority.Client, account, token string) error {
	verdict := client.Check(cmd.Context(), account, token)
	switch verdict.Kind {
	case authority.Accepted:
		fmt.Fprintf(cmd.OutOrStdout(), "accepted ttl=%s\n", verdict.TTL)
		return nil
	case authority.Rejected:
		fmt.Fprintf(cmd.OutOrStdout(), "rejected status=%d %s\n", verdict.Status, verdict.Reason)
		return errNotAccepted
	default:
		return fmt.Errorf("authority unavailable: %w", verdict.Err)
	}
}
