package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-coach/internal/auth"
	"github.com/spigell/resume-coach/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user",
	Run: func(cmd *cobra.Command, _ []string) {
		user, _ := cmd.Flags().GetString("user")
		email, _ := cmd.Flags().GetString("email")
		mintToken(strings.TrimSpace(user), strings.TrimSpace(email))
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringP("user", "u", "", "user id to put into the token subject")
	tokenCmd.Flags().StringP("email", "e", "", "email claim")
}

func mintToken(user, email string) {
	logger, config := loadConfig()

	var err error
	if user == "" {
		prompt := promptui.Prompt{
			Label: "User ID",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("user id must not be empty")
				}
				return nil
			},
		}
		if user, err = prompt.Run(); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		user = strings.TrimSpace(user)
	}
	if email == "" {
		prompt := promptui.Prompt{Label: "Email (optional)"}
		if email, err = prompt.Run(); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	secret, err := secrets.Load(secrets.Source{
		Name:  "jwt secret",
		Value: config.Auth.JWTSecret,
		File:  config.Auth.JWTSecretFile,
	})
	if err != nil {
		logger.Fatal("loading jwt secret", zap.Error(err))
	}

	issuer, err := auth.NewIssuer(secret, config.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("creating token issuer", zap.Error(err))
	}

	token, err := issuer.Issue(auth.Identity{UserID: user, Email: strings.TrimSpace(email)})
	if err != nil {
		logger.Fatal("issuing token", zap.Error(err))
	}

	fmt.Println(token)
}
