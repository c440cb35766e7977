package cli

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/issuegate/auth"
)

func newKeygenCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key and the hash to configure",
		Long: `Generate an API key for X-API-Key authentication.

Give the key to the client and add the hash to api_key_hashes.
The key is shown once and cannot be recovered from the hash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := auth.NewAPIKey(prefix)
			if err != nil {
				return err
			}
			printf(cmd, "key:  %s\n", key.Key)
			printf(cmd, "hash: %s\n", key.Hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", auth.DefaultAPIKeyPrefix, "Key prefix")
	return cmd
}
