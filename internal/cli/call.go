package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/liwenjun/go-jsonrpc/internal/logger"
	"github.com/liwenjun/go-jsonrpc/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <method>",
	Short: "Post a JSON-RPC call and print its result",
	Long: `Post a JSON-RPC call and print its result as JSON on stdout.
Parameters are repeated --param key=value pairs; values are decoded as JSON
with a plain-string fallback, and keep their order on the wire.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		pairs, _ := cmd.Flags().GetStringArray("param")
		params, err := parseParams(pairs)
		if err != nil {
			logger.Fatal(log, "Bad parameter", "error", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		p := client.Param{
			URL:    viper.GetString("url"),
			Token:  viper.GetString("token"),
			Method: args[0],
			Params: params,
		}
		log.Debug("Calling", "url", p.URL, "method", p.Method)

		resp, terr := client.Call[json.RawMessage](ctx, newClient(log), p)
		result, err := client.Flat(resp, terr).ToResult()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(result))
	},
}

func init() {
	RootCmd.AddCommand(callCmd)
	callCmd.Flags().StringArray("param", nil, "request parameter as key=value, repeatable")
}
