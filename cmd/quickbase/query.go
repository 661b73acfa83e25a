package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-quickbase"
)

var (
	queryQID      string
	queryName     string
	queryColumns  string
	querySort     string
	queryLimit    int
	queryPageSize int
	queryDesc     bool
)

var queryCmd = &cobra.Command{
	Use:   "query <table-dbid> [query]",
	Short: "Run a query and print the matching records",
	Long: `Run a query against a table. The query is either a query string,
a saved query id (--qid) or a saved query name (--qname). Records are
fetched page by page.`,
	Example: `  quickbase query bdb5rjd6h "{'7'.EX.'open'}" --columns 3.6.7
  quickbase query bdb5rjd6h --qid 1 --limit 20 --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := &quickbase.Query{
			QID:        queryQID,
			QName:      queryName,
			Descending: queryDesc,
		}
		if len(args) == 2 {
			q.Query = args[1]
		}
		if queryColumns != "" {
			q.Columns = strings.Split(queryColumns, ".")
		}
		if querySort != "" {
			q.Sort = strings.Split(querySort, ".")
		}

		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		seq := session.Query(cmd.Context(), args[0], q, queryPageSize)
		if queryLimit > 0 {
			seq = quickbase.Take(seq, queryLimit)
		}
		records, err := quickbase.Collect(seq)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), records)
		}
		return printRecords(cmd, records)
	},
}

var countCmd = &cobra.Command{
	Use:   "count <table-dbid> [query]",
	Short: "Print the number of records matching a query",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 2 {
			query = args[1]
		}

		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		n, err := session.DoQueryCount(cmd.Context(), args[0], query)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"count": n})
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryQID, "qid", "", "Saved query id")
	queryCmd.Flags().StringVar(&queryName, "qname", "", "Saved query name")
	queryCmd.Flags().StringVar(&queryColumns, "columns", "", "Dot-separated field ids to return")
	queryCmd.Flags().StringVar(&querySort, "sort", "", "Dot-separated field ids to sort by")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of records (0 for all)")
	queryCmd.Flags().IntVar(&queryPageSize, "page-size", 100, "Records fetched per request")
	queryCmd.Flags().BoolVar(&queryDesc, "desc", false, "Sort in descending order")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(countCmd)
}

// printRecords writes records as a table with one column per field.
func printRecords(cmd *cobra.Command, records []quickbase.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found")
		return nil
	}

	keys := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			keys[k] = struct{}{}
		}
	}
	columns := slices.Sorted(maps.Keys(keys))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = strings.ReplaceAll(r[c], "\n", " ")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
