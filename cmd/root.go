// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Tabula - packet capture to text table converter",
	Long: `Tabula converts a classic pcap capture file into a row-oriented text table,
one row per packet, for downstream analysis.

Each row combines two independent views of the same packet:
  - a local Ethernet/IPv4/UDP/TCP header decode (addresses, ports, payload)
  - a protocol-aware one-line summary from a pluggable decoding engine`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
