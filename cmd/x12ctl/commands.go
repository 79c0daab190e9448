// Package main implements the x12ctl subcommands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/config"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/export"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/mapper"
)

var errNoSegments = errors.New("no segments found")

// app is shared by every subcommand once the root has loaded config
type app struct {
	configPath string
	logger     *zap.Logger
	engine     *engine.Engine
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "x12ctl",
		Short:         "Inspect, map and build X12 healthcare interchanges",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a config file")

	cmd.AddCommand(a.newParseCommand())
	cmd.AddCommand(a.newExplainCommand())
	cmd.AddCommand(a.newViewCommand())
	cmd.AddCommand(a.newRecordsCommand())
	cmd.AddCommand(a.newBuildCommand())
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	// the CLI logs to stderr only when asked for debug output
	a.logger = zap.NewNop()
	if cfg.Log.Level == "debug" {
		if a.logger, err = cfg.Log.NewLogger(); err != nil {
			return err
		}
	}
	a.engine = engine.New(a.logger)
	return nil
}

func (a *app) newParseCommand() *cobra.Command {
	var withTree bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Summarize the delimiters, type and structure of an interchange",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd, args)
			if err != nil {
				return err
			}
			summary := map[string]any{
				"transactionType": doc.TransactionType,
				"description":     doc.TransactionType.Description(),
				"supported":       doc.TransactionType.Supported(),
				"delimiters":      doc.Delimiters.String(),
				"segmentCount":    doc.Len(),
				"records":         len(x12.Records(doc)),
			}
			if withTree {
				summary["tree"] = doc.Tree()
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().BoolVar(&withTree, "tree", false, "Include the loop tree")
	return cmd
}

func (a *app) newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [file]",
		Short: "Describe every segment and element in plain language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd, args)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, an := range a.engine.Analyze(cmd.Context(), doc) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", an.Tag, an.Name, an.Summary)
				for _, f := range an.Fields {
					if f.Value == "" {
						continue
					}
					fmt.Fprintf(tw, "\t%s %s\t%s\t%s\n", f.Position, f.Name, f.Value, f.Definition)
				}
			}
			return tw.Flush()
		},
	}
}

func (a *app) newViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Map an interchange to its view model JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd, args)
			if err != nil {
				return err
			}
			vm, err := a.engine.View(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), vm)
		},
	}
}

func (a *app) newRecordsCommand() *cobra.Command {
	var parquetPath string
	cmd := &cobra.Command{
		Use:   "records [file]",
		Short: "List the claims, members or subscribers in an interchange",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd, args)
			if err != nil {
				return err
			}
			recs := x12.Records(doc)
			if parquetPath == "" {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TYPE\tLABEL\tVALUE\tSEGMENT")
				for _, r := range recs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Type, r.Label, r.Value, r.StartIndex+1)
				}
				return tw.Flush()
			}

			f, err := os.Create(parquetPath)
			if err != nil {
				return fmt.Errorf("failed to create parquet file: %w", err)
			}
			n, err := export.WriteRecordsParquet(f, sourceName(args), recs)
			if err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, parquetPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&parquetPath, "parquet", "", "Write records to this parquet file instead of stdout")
	return cmd
}

func (a *app) newBuildCommand() *cobra.Command {
	var txType string
	cmd := &cobra.Command{
		Use:   "build --type 270 [file]",
		Short: "Build X12 text from view model JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := x12.ClassifyTransaction(txType)
			if !t.Supported() {
				return fmt.Errorf("unsupported transaction type %q", txType)
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			vm, err := mapper.Decode(t, data)
			if err != nil {
				return err
			}
			raw, err := a.engine.Build(cmd.Context(), vm)
			if err != nil {
				var be *mapper.BuildError
				if errors.As(err, &be) {
					return fmt.Errorf("%s: %s", be.Field, be.Message)
				}
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), raw)
			return err
		},
	}
	cmd.Flags().StringVar(&txType, "type", "", "Transaction set to build (270, 271, 276, 277, 834, 837)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) document(cmd *cobra.Command, args []string) (*x12.Document, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	doc := a.engine.Parse(cmd.Context(), string(data))
	if doc.Len() == 0 {
		return nil, errNoSegments
	}
	return doc, nil
}

// readInput reads the named file, or stdin when no file or "-" is given
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func sourceName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
