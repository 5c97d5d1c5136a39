package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/matrixdiff/internal/core"
)

// =============================================================================
// MATRICES COMMAND - list matrix sheets of an ALS
// =============================================================================

func newMatricesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrices <als.xlsx>",
		Short: "List the matrix sheets of an ALS workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			sheets, err := core.ExtractMatrices(wb)
			if err != nil {
				return err
			}
			if len(sheets) == 0 {
				return core.ErrNoMatrix
			}
			matrices := core.ListMatrices(sheets)
			def := core.DefaultMatrix(matrices, opts.preferred)

			if opts.json {
				return writeJSON(cmd, opts, map[string]any{"matrices": matrices, "default": def})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OID\tSHEET\tDEFAULT")
			for _, m := range matrices {
				mark := ""
				if m.OID == def {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.OID, m.Sheet, mark)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON instead of a table")
	return cmd
}

// =============================================================================
// HIERARCHY COMMAND - export the master folder/form hierarchy
// =============================================================================

func newHierarchyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy <als.xlsx>",
		Short: "Export the folder/form hierarchy of one matrix as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			h, _, err := core.BuildHierarchy(wb, core.HierarchyOptions{MatrixOID: opts.matrix, Preferred: opts.preferred})
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd, opts, h)
			}
			all := core.Selection{Selected: h.FolderCodes()}
			return emit(cmd, opts, core.RenderHierarchyReport(h, all))
		},
	}
	cmd.Flags().StringVar(&opts.matrix, "matrix", "", "Matrix OID (default: preferred, then first)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the hierarchy as JSON")
	return cmd
}

// =============================================================================
// COMPARE COMMAND - diff an SSD export against an ALS matrix
// =============================================================================

func newCompareCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <als.xlsx> <ssd-file|->",
		Short: "Compare an SSD export with an ALS matrix",
		Long: `Compare an SSD export (csv, xlsx or json) with one matrix of an ALS workbook.

Pass "-" as the SSD file to read pasted text (CSV, TSV or JSON) from stdin.
The annotated report lists forms present in SSD only (Missing) and forms
present in ALS only (Extra).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			c, err := readCandidate(cmd, args[1])
			if err != nil {
				return err
			}
			h, _, err := core.BuildHierarchy(wb, core.HierarchyOptions{MatrixOID: opts.matrix, Preferred: opts.preferred})
			if err != nil {
				return err
			}
			result := core.CompareResult{
				Hierarchy: h,
				Candidate: c,
				Diff:      core.Diff(h.FolderFormMap(), c.Map),
			}
			if opts.json {
				return writeJSON(cmd, opts, map[string]any{
					"matrixOID":     h.MatrixOID,
					"missing_in_db": result.Diff.MissingInTarget,
					"extra_in_db":   result.Diff.ExtraInTarget,
				})
			}
			return emit(cmd, opts, result.Report())
		},
	}
	cmd.Flags().StringVar(&opts.matrix, "matrix", "", "Matrix OID (default: preferred, then first)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the raw diff as JSON")
	return cmd
}

// =============================================================================
// FIELDS COMMANDS - preview form fields per role
// =============================================================================

func newRolesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles <als.xlsx>",
		Short: "List the roles named in field view and entry restrictions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			roles := core.BuildFieldCatalog(wb).Roles()
			if opts.json {
				return writeJSON(cmd, opts, map[string][]string{"roles": roles})
			}
			for _, role := range roles {
				fmt.Fprintln(cmd.OutOrStdout(), role)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON instead of one role per line")
	return cmd
}

func newFieldsCmd(opts *options) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "fields <als.xlsx> <form-oid>",
		Short: "Show the fields of one form as a role sees them",
		Long: `Show the fields of one form, ordered by ordinal. Fields hidden from --role
are left out; RESTRICTED marks fields the role may see but not enter.

Prefix marks: * required, # future dates queried, ^ non-conformance queried,
$ does not break signature.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := readWorkbook(args[0])
			if err != nil {
				return err
			}
			fields := core.BuildFieldCatalog(wb).FieldsForForm(args[1], role)
			if opts.json {
				return writeJSON(cmd, opts, map[string]any{"formOID": core.NormalizeCode(args[1]), "role": role, "fields": fields})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDINAL\tFIELD\tLABEL\tDICTIONARY\tENTRY")
			for _, f := range fields {
				entry := ""
				if f.IsEntryRestricted {
					entry = "RESTRICTED"
				}
				fmt.Fprintf(tw, "%g\t%s%s\t%s\t%s\t%s\n", f.Ordinal, f.DisplayPrefix, f.FieldOID, f.Label, f.DataDictionaryName, entry)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&role, "role", core.AllRoles, "Role to preview")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON instead of a table")
	return cmd
}

// readCandidate decodes an SSD file, or stdin text for "-".
func readCandidate(cmd *cobra.Command, path string) (core.Candidate, error) {
	if path == "-" {
		data, err := io.ReadAll(core.CleanReader(cmd.InOrStdin()))
		if err != nil {
			return core.Candidate{}, err
		}
		c, ok := core.ParseCandidateText(string(data))
		if !ok {
			return core.Candidate{}, core.ErrUnrecognizedCandidate
		}
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Candidate{}, err
	}
	return core.ParseCandidateFile(path, data)
}

func writeJSON(cmd *cobra.Command, opts *options, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return emit(cmd, opts, string(data)+"\n")
}
