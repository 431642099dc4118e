package cli

import (
	"fmt"
	"os"

	"github.com/liwenjun/go-jsonrpc/internal/logger"
	"github.com/liwenjun/go-jsonrpc/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// notifyCmd represents the notify command
var notifyCmd = &cobra.Command{
	Use:   "notify <method>",
	Short: "Post a JSON-RPC notification",
	Long: `Post a JSON-RPC notification. Notifications carry no id and expect no
reply, so only transport failures are reported.`,
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
		log.Debug("Notifying", "url", p.URL, "method", p.Method)

		if terr := newClient(log).Notify(ctx, p); terr != nil {
			fmt.Fprintln(os.Stderr, terr)
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().StringArray("param", nil, "request parameter as key=value, repeatable")
}
