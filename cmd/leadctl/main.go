// leadctl works on the lead list of the session persisted by the API
// server, without going through HTTP.
//
//	leadctl import leads.xlsx
//	leadctl list
//	leadctl stats
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/xavierca1/calldesk/internal/config"
	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/infra/database"
	"github.com/xavierca1/calldesk/internal/usecase"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var asJSON bool
	flags := pflag.NewFlagSet("leadctl", pflag.ContinueOnError)
	flags.StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "SQLite file path or postgres:// URL")
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: leadctl [--db PATH] [--json] import FILE | list | stats")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	ctx := context.Background()
	conn, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Migrate(ctx); err != nil {
		return err
	}

	desk := usecase.NewDesk(database.NewSessionRepository(conn), database.NewLeadRepository(conn))

	switch cmd := flags.Arg(0); cmd {
	case "import":
		if flags.NArg() != 2 {
			return errors.New("usage: leadctl import FILE")
		}
		return importFile(ctx, desk, flags.Arg(1), out)
	case "list":
		return desk.Do(ctx, func(e *usecase.LeadEngine) error {
			if asJSON {
				return json.NewEncoder(out).Encode(e.Leads())
			}
			return printLeads(out, e.Leads())
		})
	case "stats":
		return desk.Do(ctx, func(e *usecase.LeadEngine) error {
			if asJSON {
				return json.NewEncoder(out).Encode(e.Stats())
			}
			s := e.Stats()
			_, err := fmt.Fprintf(out, "total=%d booked=%d calls=%d\n", s.Total, s.Booked, s.Calls)
			return err
		})
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func importFile(ctx context.Context, desk *usecase.Desk, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := usecase.NewImportLeadsUseCase(usecase.DefaultColumnTable(), nil).
		Execute(ctx, usecase.ImportLeadsInput{Filename: path, Data: data})
	if err != nil {
		return err
	}

	return desk.Do(ctx, func(e *usecase.LeadEngine) error {
		if err := e.ReplaceAll(ctx, res.Leads); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "imported %d leads (%d rows skipped)\n", res.Summary.Imported, res.Summary.Skipped)
		return err
	})
}

func printLeads(out io.Writer, leads []entity.Lead) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHONE\tEMAIL\tCOMPANY\tSTATUS")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Name, l.Phone, l.Email, l.Company, l.Status.Label())
	}
	return tw.Flush()
}
