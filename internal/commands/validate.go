package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var journalColumns = []string{"entry", "account_code", "debit", "credit"}

// entryLines is one journal entry read from CSV
type entryLines struct {
	name    string
	codes   []string
	lines   []domain.LineInput
	unknown []int // indexes of lines whose code is not in the chart
}

func newValidateCommand() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Check journal entries from CSV for double-entry balance",
		Long: `Read journal lines from a CSV file with the header
  entry,account_code,debit,credit
group them by entry and report each entry's totals and whether it may be
posted. Use "-" to read standard input. Exits non-zero if any entry
cannot be submitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := seededStore(seedPath)
			if err != nil {
				return err
			}
			accountIDs := make(map[string]uuid.UUID)
			accounts, err := store.Accounts().List(domain.AccountFilter{})
			if err != nil {
				return err
			}
			for _, a := range accounts {
				accountIDs[a.Code] = a.ID
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			entries, err := readEntries(in, accountIDs)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			if !printChecks(cmd.OutOrStdout(), entries) {
				return ErrUnsubmittable
			}
			return nil
		},
	}
	addSeedFlag(cmd, &seedPath)
	return cmd
}

// readEntries parses journal lines and groups them by entry in order of first appearance
func readEntries(r io.Reader, accountIDs map[string]uuid.UUID) ([]*entryLines, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range journalColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var entries []*entryLines
	byName := make(map[string]*entryLines)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, _ := reader.FieldPos(0)

		name := strings.TrimSpace(record[index["entry"]])
		code := strings.TrimSpace(record[index["account_code"]])
		debit, err := parseAmount(record[index["debit"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: debit: %w", row, err)
		}
		credit, err := parseAmount(record[index["credit"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: credit: %w", row, err)
		}

		entry, ok := byName[name]
		if !ok {
			entry = &entryLines{name: name}
			byName[name] = entry
			entries = append(entries, entry)
		}
		id, known := accountIDs[code]
		if !known && code != "" {
			entry.unknown = append(entry.unknown, len(entry.lines))
		}
		entry.codes = append(entry.codes, code)
		entry.lines = append(entry.lines, domain.LineInput{AccountID: id, Debit: debit, Credit: credit})
	}

	log.Debug().Int("entries", len(entries)).Msg("Journal lines read")
	return entries, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// printChecks writes a summary table and the problems of each entry.
// It reports whether every entry is submittable.
func printChecks(w io.Writer, entries []*entryLines) bool {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tLINES\tDEBIT\tCREDIT\tDIFFERENCE\tSTATUS")

	var details []string
	blocked := 0
	for _, entry := range entries {
		check := domain.CheckLines(entry.lines)

		status := "Balanced"
		if !check.Balanced() {
			status = "Not Balanced"
		}
		if !check.Submittable() {
			blocked++
			status += " (not submittable)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			entry.name, check.LineCount, check.TotalDebit, check.TotalCredit, check.Difference(), status)

		for _, i := range entry.unknown {
			details = append(details, fmt.Sprintf("%s line %d: unknown account code %s", entry.name, i+1, entry.codes[i]))
		}
		for _, p := range check.Problems {
			details = append(details, fmt.Sprintf("%s line %d: %s: %v", entry.name, p.Line+1, p.Field, p.Err))
		}
		if check.LineCount < domain.MinJournalLines {
			details = append(details, fmt.Sprintf("%s: %v", entry.name, domain.ErrTooFewLines))
		}
	}
	tw.Flush()

	if len(details) > 0 {
		fmt.Fprintln(w)
		for _, d := range details {
			fmt.Fprintln(w, d)
		}
	}
	fmt.Fprintf(w, "\n%d entries, %d not submittable\n", len(entries), blocked)
	return blocked == 0
}
