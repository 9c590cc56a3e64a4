package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/tabula/internal/config"
	"firestige.xyz/tabula/internal/core/decoder"
	"firestige.xyz/tabula/internal/log"
	"firestige.xyz/tabula/internal/pipeline"
	"firestige.xyz/tabula/internal/sink/table"
	"firestige.xyz/tabula/internal/source/pcapfile"
	"firestige.xyz/tabula/internal/summary"
)

var (
	pcapPath   string
	outPath    string
	configPath string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a pcap file into a packet table",
	Long: `
Convert walks every packet record of a classic pcap capture and writes one
row per packet: frame metadata, addressing, a protocol summary and the
transport payload in hex. The output file must not already exist.

Examples:
  tabula convert --pcap capture.pcap --out capture.tbl
  tabula convert --pcap capture.pcap --out capture.tbl -c tabula.yml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log.Init(&cfg.Log)

		// Pre-flight before touching the output path
		if _, err := os.Stat(pcapPath); err != nil {
			return fmt.Errorf("input pcap %s: %w", pcapPath, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		written, err := convert(ctx, cfg, pcapPath, outPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d packets written\n", written)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&pcapPath, "pcap", "p", "", "pcap file to read")
	convertCmd.Flags().StringVarP(&outPath, "out", "o", "", "table file to create (must not exist)")
	convertCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	convertCmd.MarkFlagRequired("pcap")
	convertCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(convertCmd)
}

// convert runs the conversion pipeline and returns the number of rows
// written. Rows written before a failure stay in the output file.
func convert(ctx context.Context, cfg *config.Config, in, out string) (uint64, error) {
	src, err := pcapfile.Open(in)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	prov, err := newProvider(cfg, in)
	if err != nil {
		return 0, err
	}
	defer prov.Close()

	sink, err := table.Create(out, table.Options{
		Separator:       cfg.Output.Separator,
		TimeFormat:      cfg.Output.TimeFormat,
		MaxPayloadBytes: cfg.Output.MaxPayloadBytes,
	})
	if err != nil {
		return 0, err
	}

	p := pipeline.New(pipeline.Config{
		Source:    src,
		Decoder:   decoder.NewStandardDecoder(decoder.Config{LinkType: src.LinkType()}),
		Summaries: prov,
		Sink:      sink,
	})

	runErr := p.Run(ctx)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}

	stats := p.Stats()
	if skipped := stats.Skipped() + stats.Truncated; skipped > 0 {
		log.GetLogger().WithFields(map[string]interface{}{
			"unsupported": stats.Unsupported,
			"malformed":   stats.Malformed,
			"truncated":   stats.Truncated,
		}).Warnf("%d of %d records produced no row", skipped, stats.Received+stats.Truncated)
	}
	return stats.Written, runErr
}

func newProvider(cfg *config.Config, path string) (summary.Provider, error) {
	switch cfg.Summary.Engine {
	case config.EngineGoPacket:
		return summary.NewGoPacketProvider(path)
	default:
		return nil, fmt.Errorf("unknown summary engine %q", cfg.Summary.Engine)
	}
}
