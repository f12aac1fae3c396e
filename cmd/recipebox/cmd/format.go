package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/recipebox/internal/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeProfile(w io.Writer, format string, p *domain.Profile) error {
	switch format {
	case formatJSON:
		return writeJSON(w, p)
	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "USER ID\t%s\n", p.UserID)
		fmt.Fprintf(tw, "USERNAME\t%s\n", p.Username)
		fmt.Fprintf(tw, "BIO\t%s\n", p.Bio)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeRecipes(w io.Writer, format string, recipes []domain.Recipe) error {
	switch format {
	case formatJSON:
		return writeJSON(w, recipes)
	case formatTable:
		if len(recipes) == 0 {
			_, err := fmt.Fprintln(w, "No favorites.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tMINUTES\tSERVINGS")
		for _, r := range recipes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", r.ID, r.Category, r.Title, r.CookTimeMinutes, r.Servings)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
