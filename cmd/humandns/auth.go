package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/humandns/internal/client"
	"github.com/rohits-web03/humandns/internal/models"
)

var password string

// readPassword takes --password or, failing that, the first line of stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword(cmd)
		if err != nil {
			return err
		}
		u, err := api.Register(cmd.Context(), client.RegisterRequest{Username: args[0], Email: args[1], Password: pw})
		if err != nil {
			return err
		}
		if err := api.Login(cmd.Context(), u.Email, pw); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", u.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in with email and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword(cmd)
		if err != nil {
			return err
		}
		if err := api.Login(cmd.Context(), args[0], pw); err != nil {
			return err
		}
		me, err := api.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", me.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		me, err := api.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", me.Username, me.Email, me.ID)
		return nil
	},
}

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Show connected login methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := api.Security(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Security level: %s (%d/%d methods)\n", info.Level, info.Connected, info.Total)
		fmt.Fprintf(out, "Methods: %s\n", strings.Join(info.Methods, ", "))
		fmt.Fprintln(out, info.Recommendation)
		return nil
	},
}

var (
	recoverCode   string
	recoverToken  string
	recoverResend bool
)

var recoverCmd = &cobra.Command{
	Use:   "recover <email> [method]",
	Short: "Recover an account",
	Long: `Without --code or --oauth-token, starts recovery and mails a one-time code.
With --code, finishes recovery by email. With --oauth-token and a provider
method (google, github, discord), finishes recovery through that provider.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, out := cmd.Context(), cmd.OutOrStdout()
		email := args[0]

		switch {
		case recoverCode != "":
			if err := api.VerifyRecovery(ctx, email, models.MethodEmail, recoverCode); err != nil {
				return err
			}
		case recoverToken != "":
			if len(args) < 2 {
				return &client.ValidationError{Field: "method", Message: "required with --oauth-token"}
			}
			if err := api.VerifyRecovery(ctx, email, args[1], recoverToken); err != nil {
				return err
			}
		case recoverResend:
			sent, err := api.ResendOTP(ctx, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (valid for %d minutes)\n", sent.Message, sent.ExpiresIn/60)
			return nil
		default:
			rec, err := api.StartRecovery(ctx, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s. Available methods: %s\n", rec.Message, strings.Join(rec.AvailableMethods, ", "))
			if rec.Warning != "" {
				fmt.Fprintln(out, "Warning:", rec.Warning)
			}
			return nil
		}
		fmt.Fprintln(out, "Account recovered, you are logged in")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&password, "password", "", "password (read from stdin if empty)")
	loginCmd.Flags().StringVar(&password, "password", "", "password (read from stdin if empty)")
	recoverCmd.Flags().StringVar(&recoverCode, "code", "", "one-time code from the recovery email")
	recoverCmd.Flags().StringVar(&recoverToken, "oauth-token", "", "provider access token")
	recoverCmd.Flags().BoolVar(&recoverResend, "resend", false, "send a new one-time code")
}
