package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-quickbase"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <dbid>",
	Short: "Show the tables of an application or the fields of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		schema, err := session.GetSchema(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), schema)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if len(schema.Tables) > 0 {
			fmt.Fprintln(w, "NAME\tDBID")
			for _, t := range schema.Tables {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.ID)
			}
			return w.Flush()
		}
		fmt.Fprintln(w, "ID\tLABEL\tTYPE")
		for _, f := range schema.Fields {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID(), f.Label(), f.Type())
		}
		return w.Flush()
	},
}

var dbsAdminOnly bool

var dbsCmd = &cobra.Command{
	Use:   "dbs",
	Short: "List the applications and tables the user can access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		dbs, err := session.GrantedDBs(cmd.Context(), &quickbase.GrantedDBsOptions{AdminOnly: dbsAdminOnly})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), dbs)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DBID\tNAME")
		for _, db := range dbs {
			fmt.Fprintf(w, "%s\t%s\n", db.ID, db.Name)
		}
		return w.Flush()
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages <app-dbid>",
	Short: "List the pages of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		pages, err := session.ListDBPages(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), pages)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tNAME")
		for _, p := range pages {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Type, p.Name)
		}
		return w.Flush()
	},
}

var pageByName bool

var pageCmd = &cobra.Command{
	Use:   "page <app-dbid> <page-id>",
	Short: "Print the content of a page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		body, err := session.GetDBPage(cmd.Context(), args[0], args[1], pageByName)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"page": args[1], "body": body})
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

var fileOutput string

var fileCmd = &cobra.Command{
	Use:   "file <table-dbid> <rid> <fid>",
	Short: "Download a file attachment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rid, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid record id %q", args[1])
		}
		fid, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid field id %q", args[2])
		}

		session, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if fileOutput != "" {
			f, err := os.Create(fileOutput)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		n, err := session.GetFile(cmd.Context(), args[0], rid, fid, out)
		if err != nil {
			return err
		}
		if fileOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", n, fileOutput)
		}
		return nil
	},
}

func init() {
	dbsCmd.Flags().BoolVar(&dbsAdminOnly, "admin-only", false, "Only databases the user administers")
	pageCmd.Flags().BoolVar(&pageByName, "name", false, "Treat the page argument as a page name")
	fileCmd.Flags().StringVarP(&fileOutput, "output", "o", "", "Write to a file instead of stdout")

	rootCmd.AddCommand(schemaCmd, dbsCmd, pagesCmd, pageCmd, fileCmd)
}
