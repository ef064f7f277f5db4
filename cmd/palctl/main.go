// Command palctl provisions and inspects the objects kept by the PKCS #11
// object store, e.g. to load a device certificate before running a
// simulated device.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	labelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "palctl",
	Short: "Manage the objects of the PKCS #11 object store",
	Long: `palctl saves, finds, reads and destroys the four objects of the
PKCS #11 object store: the device certificate, the device private and
public keys, and the code verification key.

Objects are named with --label, either by kind (certificate, private-key,
public-key, code-signing-key) or by their PKCS #11 label.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: config.* in /etc/p11pal, $HOME/.p11pal or ./)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVarP(&labelFlag, "label", "l", "", "object kind or label")
	_ = rootCmd.MarkPersistentFlagRequired("label")

	rootCmd.AddCommand(saveCmd, findCmd, getCmd, destroyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
