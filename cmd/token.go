package cmd

import (
	"fmt"
	"time"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/service"
	"github.com/spf13/cobra"
)

var (
	tokenUser        string
	tokenTTL         time.Duration
	tokenDescription string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue and revoke scoped access tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a short-lived revokable token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		access := client.NewAccessClient(cfg.ArtifactoryURL, credentials(cfg))
		tm := service.NewTokenManager(access)
		token, err := tm.CreateUserToken(tokenUser, tokenDescription, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Printf("token_id: %s\naccess_token: %s\nexpires_in: %d\n",
			token.TokenID, token.AccessToken, token.ExpiresIn)
		if token.ReferenceToken != "" {
			fmt.Printf("reference_token: %s\n", token.ReferenceToken)
		}
		return nil
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token-id>",
	Short: "Revoke a token by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		access := client.NewAccessClient(cfg.ArtifactoryURL, credentials(cfg))
		tm := service.NewTokenManager(access)
		return tm.RevokeToken(args[0])
	},
}

func init() {
	tokenCreateCmd.Flags().StringVar(&tokenUser, "user", "", "Username the token acts as")
	tokenCreateCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime (0 for the server default)")
	tokenCreateCmd.Flags().StringVar(&tokenDescription, "description", "", "Token description")
	_ = tokenCreateCmd.MarkFlagRequired("user")
	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCmd.AddCommand(tokenRevokeCmd)
	RootCmd.AddCommand(tokenCmd)
}
