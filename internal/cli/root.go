// Package cli implements the rpccall command line tool, a small curl-style
// front end for posting JSON-RPC 2.0 requests over HTTP.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/liwenjun/go-jsonrpc/internal/logger"
	"github.com/liwenjun/go-jsonrpc/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "rpccall",
	Short: "post JSON-RPC 2.0 requests over HTTP",
	Long: `rpccall posts a single JSON-RPC 2.0 request to an HTTP endpoint.
Calls print the result on stdout; notifications expect no reply at all.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().String("url", "", "endpoint the request is posted to")
	viper.BindPFlag("url", RootCmd.PersistentFlags().Lookup("url"))
	RootCmd.PersistentFlags().String("token", "", "bearer token for the Authorization header")
	viper.BindPFlag("token", RootCmd.PersistentFlags().Lookup("token"))
	RootCmd.PersistentFlags().String("log-level", "error", "log level")
	viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))
	RootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "timeout for the whole exchange, 0 disables it")
	viper.BindPFlag("timeout", RootCmd.PersistentFlags().Lookup("timeout"))
	RootCmd.PersistentFlags().Bool("generate-ids", false, "send generated request ids instead of the fixed id 0")
	viper.BindPFlag("generate-ids", RootCmd.PersistentFlags().Lookup("generate-ids"))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("rpccall")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

func newLogger() *slog.Logger {
	level, err := logger.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		logger.Fatal(logger.New(os.Stderr, slog.LevelError), "Bad log level", "error", err)
	}
	return logger.New(os.Stderr, level)
}

func newClient(log *slog.Logger) *client.Client {
	options := client.DefaultOptions()
	options.Logger = log
	options.GenerateRequestIDs = viper.GetBool("generate-ids")
	return client.NewClient(options)
}

// commandContext bounds the exchange with the configured timeout. A zero or
// negative timeout leaves the request open-ended.
func commandContext() (context.Context, context.CancelFunc) {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
