package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rohits-web03/humandns/internal/client"
)

var (
	serverURL   string
	credentials string
	verbose     bool

	logger *zap.Logger
	tokens *client.FileTokenStore
	api    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "humandns",
	Short: "Command line client for HumanDNS profiles",
	Long: `humandns manages your HumanDNS profile: the channels people can reach
you on, how they are grouped, your contacts, and the QR code or vCard you
share instead of a phone number.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if credentials == "" {
			if credentials, err = client.DefaultTokenPath(); err != nil {
				return err
			}
		}
		tokens = client.NewFileTokenStore(credentials, serverURL)
		if err := tokens.Load(); err != nil {
			return err
		}
		api = client.New(serverURL, tokens, client.WithLogger(logger))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if tokens != nil {
			return tokens.Close()
		}
		return nil
	},
}

func init() {
	defaultServer := os.Getenv("HUMANDNS_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "API base URL (env HUMANDNS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&credentials, "credentials", "", "token file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests")

	rootCmd.AddCommand(
		registerCmd, loginCmd, logoutCmd, whoamiCmd, securityCmd,
		recoverCmd, profileCmd, editCmd, vcardCmd, qrCmd,
		channelCmd, groupCmd, contactCmd, avatarCmd, deleteAccountCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
