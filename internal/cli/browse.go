package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

// errNuclideNotFound is returned by browse when neither id form matches.
var errNuclideNotFound = errors.New("nuclide not found")

const (
	browseNuclideSQL = `SELECT * FROM nuclides WHERE nuclideId = ?`
	browseDecaysSQL  = `SELECT * FROM decays WHERE parentNuclideId = ?`
	browseLinesSQL   = `SELECT energy, emissionProb, daughterNuclideId, lineType, designation, source
FROM libLines
WHERE nuclideId = ? AND lineType IN ('G', 'X', 'A')
ORDER BY emissionProb DESC`
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <database> <nuclide>",
		Short: "Print the stored data of one nuclide",
		Long: "Print the nuclide row, its decays and its gamma, X-ray and annihilation\n" +
			"emissions from a SQLite library. The nuclide may be given as Cs-137 or 137CS.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return userError("open database: %w", err)
			}
			db, err := sql.Open("sqlite", "file:"+args[0]+"?mode=ro")
			if err != nil {
				return sysError("open database: %w", err)
			}
			defer db.Close()

			a.log.Debug("browsing", zap.String("database", args[0]), zap.String("nuclide", args[1]))
			err = browse(cmd.Context(), db, cmd.OutOrStdout(), args[1])
			if errors.Is(err, errNuclideNotFound) {
				return userError("%w", err)
			}
			if err != nil {
				return sysError("%w", err)
			}
			return nil
		},
	}
}

// browse prints one nuclide. The id is tried as given and then converted
// from NUCID form.
func browse(ctx context.Context, db *sql.DB, w io.Writer, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	candidates := []string{id}
	if alt := ensdf.ExternalID(ensdf.NUCIDFromExternal(id)); alt != id {
		candidates = append(candidates, alt)
	}
	for _, c := range candidates {
		found, err := printNuclide(ctx, db, w, c)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errNuclideNotFound, id)
}

func printNuclide(ctx context.Context, db *sql.DB, w io.Writer, id string) (bool, error) {
	rows, err := db.QueryContext(ctx, browseNuclideSQL, id)
	if err != nil {
		return false, fmt.Errorf("query nuclide: %w", err)
	}
	n, err := printFields(w, rows, "")
	if err != nil || n == 0 {
		return false, err
	}
	fmt.Fprintln(w)

	rows, err = db.QueryContext(ctx, browseDecaysSQL, id)
	if err != nil {
		return false, fmt.Errorf("query decays: %w", err)
	}
	fmt.Fprintln(w, "Decays:")
	if _, err := printFields(w, rows, "\t"); err != nil {
		return false, err
	}

	rows, err = db.QueryContext(ctx, browseLinesSQL, id)
	if err != nil {
		return false, fmt.Errorf("query lines: %w", err)
	}
	fmt.Fprintln(w, "Emissions:")
	return true, printTable(w, rows)
}

// scanStrings reads the current row as strings, NULL as empty.
func scanStrings(rows *sql.Rows, n int) ([]string, error) {
	vals := make([]sql.NullString, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i, v := range vals {
		out[i] = v.String
	}
	return out, nil
}

// printFields prints each row as name=value lines with a blank line
// between rows. It closes rows.
func printFields(w io.Writer, rows *sql.Rows, prefix string) (int, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	n := 0
	for rows.Next() {
		vals, err := scanStrings(rows, len(cols))
		if err != nil {
			return n, err
		}
		if n > 0 {
			fmt.Fprintln(w)
		}
		for i, c := range cols {
			fmt.Fprintf(w, "%s%s=%s\n", prefix, c, vals[i])
		}
		n++
	}
	return n, rows.Err()
}

// printTable prints rows as aligned columns under a header. It closes rows.
func printTable(w io.Writer, rows *sql.Rows) error {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for rows.Next() {
		vals, err := scanStrings(rows, len(cols))
		if err != nil {
			return err
		}
		for i, v := range vals {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, v)
		}
		fmt.Fprintln(tw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tw.Flush()
}
