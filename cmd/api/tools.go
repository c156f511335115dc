package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/forensic-audit/internal/config"
	domain "github.com/bryanwahyu/forensic-audit/internal/domain/audit"
)

func newNIFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nif <tax-id>...",
		Short: "Check 9-digit tax identification numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, id := range args {
				status := "invalid"
				if domain.ValidTaxID(id) {
					status = "valid"
				} else {
					invalid++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, status)
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid tax id(s)", invalid)
			}
			return nil
		},
	}
}

func newHashCmd() *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "hash <session-id>",
		Short: "Compute the display hash of a session and its evidence",
		Long: "Compute the display hash of a session and its evidence.\n" +
			"Each --file is category:name:size, e.g. saft:ledger.xml:2048.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !domain.ValidSessionID(id) {
				return fmt.Errorf("invalid session id %q", id)
			}
			store := domain.NewEvidenceStore()
			for _, arg := range files {
				c, f, err := parseFileArg(arg)
				if err != nil {
					return err
				}
				if _, err := store.Add(c, []domain.FileDescriptor{f}); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.DisplayHash(id, store.Snapshot()))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&files, "file", nil, "evidence descriptor category:name:size (repeatable)")
	return cmd
}

// parseFileArg splits category:name:size. The name may itself contain ':'.
func parseFileArg(s string) (domain.Category, domain.FileDescriptor, error) {
	first := strings.Index(s, ":")
	last := strings.LastIndex(s, ":")
	if first < 0 || first == last {
		return "", domain.FileDescriptor{}, fmt.Errorf("file %q: want category:name:size", s)
	}
	c, err := domain.ParseCategory(s[:first])
	if err != nil {
		return "", domain.FileDescriptor{}, err
	}
	size, err := strconv.ParseInt(s[last+1:], 10, 64)
	if err != nil || size < 0 {
		return "", domain.FileDescriptor{}, fmt.Errorf("file %q: bad size", s)
	}
	return c, domain.FileDescriptor{Name: s[first+1 : last], Size: size}, nil
}

func newJournalCmd(cfgPath func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal <session-id>",
		Short: "Print the stored journal of a session from the configured sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sinks, err := sinksFromConfig(cmd, cfgPath())
			if err != nil {
				return err
			}
			defer sinks.Close()

			entries, err := sinks.Journal.ListBySession(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Level, e.String())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "max entries, newest first")
	return cmd
}

func newReportCmd(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "report <session-id>",
		Short: "Print the latest stored report of a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sinks, err := sinksFromConfig(cmd, cfgPath())
			if err != nil {
				return err
			}
			defer sinks.Close()

			rep, err := sinks.Reports.LatestBySession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rep == nil {
				return fmt.Errorf("no report stored for session %s", args[0])
			}
			return writeIndented(cmd.OutOrStdout(), rep)
		},
	}
}

func sinksFromConfig(cmd *cobra.Command, path string) (*sqlSinks, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if cfg.Journal.Driver == "" {
		return nil, fmt.Errorf("journal.driver is not configured")
	}
	return openSinks(cmd.Context(), cfg.Journal.Driver, cfg.Journal.DSN)
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
