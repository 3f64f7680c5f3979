// Command trellisdb is a thin development tool over the tile bit
// database: normalize database files, list their contents, and translate
// tile configurations to and from CRAM dumps.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	trellis "github.com/ngi-nix/prjtrellis"
	"github.com/ngi-nix/prjtrellis/internal/bitdb"
	"github.com/ngi-nix/prjtrellis/internal/cram"
	"github.com/ngi-nix/prjtrellis/internal/devices"
	"github.com/ngi-nix/prjtrellis/internal/tileconfig"
)

var (
	verbose bool

	fmtWrite bool

	decodeDB  string
	decodeOut string

	encodeDB       string
	encodeIndex    string
	encodeFamily   string
	encodeTileType string
	encodeFrames   int
	encodeBits     int
	encodeOut      string
)

func main() {
	root := &cobra.Command{
		Use:           "trellisdb",
		Short:         "Inspect and exercise tile bit databases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	showCmd := &cobra.Command{
		Use:   "show <bits.db>",
		Short: "List the sinks, words and enums of a database",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	fmtCmd := &cobra.Command{
		Use:   "fmt <bits.db>",
		Short: "Re-emit a database in its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE:  runFmt,
	}
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file instead of printing")

	decodeCmd := &cobra.Command{
		Use:   "decode <cram.txt>",
		Short: "Decode a CRAM dump into a tile config",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}
	decodeCmd.Flags().StringVar(&decodeDB, "db", "", "tile database file (required)")
	decodeCmd.Flags().StringVarP(&decodeOut, "output", "o", "", "output file (default stdout)")
	decodeCmd.MarkFlagRequired("db")

	encodeCmd := &cobra.Command{
		Use:   "encode <config.txt>",
		Short: "Encode a tile config into a CRAM dump",
		Args:  cobra.ExactArgs(1),
		RunE:  runEncode,
	}
	encodeCmd.Flags().StringVar(&encodeDB, "db", "", "tile database file (required)")
	encodeCmd.Flags().StringVar(&encodeIndex, "index", "", "device index file (devices.yaml)")
	encodeCmd.Flags().StringVar(&encodeFamily, "family", "", "device family, with --index")
	encodeCmd.Flags().StringVar(&encodeTileType, "tiletype", "", "tile type, with --index")
	encodeCmd.Flags().IntVar(&encodeFrames, "frames", 0, "CRAM frame count, without --index")
	encodeCmd.Flags().IntVar(&encodeBits, "bits", 0, "CRAM bits per frame, without --index")
	encodeCmd.Flags().StringVarP(&encodeOut, "output", "o", "", "output file (default stdout)")
	encodeCmd.MarkFlagRequired("db")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the trellisdb version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(trellis.Version())
		},
	}

	root.AddCommand(showCmd, fmtCmd, decodeCmd, encodeCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := bitdb.Load(args[0])
	if err != nil {
		return err
	}
	sinks := db.Sinks()
	words := db.SettingWords()
	enums := db.SettingEnums()
	fmt.Printf("%s: %d muxes, %d words, %d enums\n", args[0], len(sinks), len(words), len(enums))
	for _, sink := range sinks {
		mux, err := db.MuxData(sink)
		if err != nil {
			return err
		}
		fmt.Printf("mux %s (%d arcs)\n", sink, len(mux.Arcs))
	}
	for _, name := range words {
		word, err := db.WordData(name)
		if err != nil {
			return err
		}
		fmt.Printf("word %s (%d bits)\n", name, len(word.Bits))
	}
	for _, name := range enums {
		enum, err := db.EnumData(name)
		if err != nil {
			return err
		}
		fmt.Printf("enum %s (%d options)\n", name, len(enum.Options))
	}
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	db, err := bitdb.Load(args[0])
	if err != nil {
		return err
	}
	text := db.Text()
	if !fmtWrite {
		fmt.Print(text)
		return nil
	}
	slog.Debug("rewriting database", "path", args[0])
	return os.WriteFile(args[0], []byte(text), 0644)
}

func runDecode(cmd *cobra.Command, args []string) error {
	db, err := bitdb.Load(decodeDB)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	c, err := cram.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing CRAM dump %s: %w", args[0], err)
	}
	slog.Debug("decoding tile", "db", decodeDB, "frames", c.Frames(), "bits", c.FrameBits())
	cfg, err := db.TileCRAMToConfig(c.FullView())
	if err != nil {
		return err
	}
	return writeOutput(decodeOut, cfg.String())
}

func runEncode(cmd *cobra.Command, args []string) error {
	frames, bits := encodeFrames, encodeBits
	if encodeIndex != "" {
		if encodeFamily == "" || encodeTileType == "" {
			return fmt.Errorf("--index requires --family and --tiletype")
		}
		idx, err := devices.LoadIndex(encodeIndex)
		if err != nil {
			return err
		}
		frames, bits, err = idx.TileDims(encodeFamily, encodeTileType)
		if err != nil {
			return err
		}
	}
	if frames <= 0 || bits <= 0 {
		return fmt.Errorf("CRAM dimensions required: pass --index or --frames/--bits")
	}
	db, err := bitdb.Load(encodeDB)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cfg, err := tileconfig.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing tile config %s: %w", args[0], err)
	}
	c := cram.New(frames, bits)
	slog.Debug("encoding tile", "db", encodeDB, "frames", frames, "bits", bits)
	if err := db.ConfigToTileCRAM(cfg, c.FullView()); err != nil {
		return err
	}
	return writeOutput(encodeOut, c.Dump())
}

func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
