// Command cpb fetches Carbon Portal binary data objects from the command
// line.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/icos-cp/cpb"
	"github.com/icos-cp/cpb/country"
	"github.com/icos-cp/cpb/dobj"
	"github.com/icos-cp/cpb/internal/version"
	"github.com/icos-cp/cpb/logging"
	"github.com/icos-cp/cpb/payload"
	"github.com/icos-cp/cpb/sparql"
	"github.com/icos-cp/cpb/table"
)

func main() {
	viper.SetEnvPrefix("CPB")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	root := &cobra.Command{
		Use:   "cpb",
		Short: "cpb - Carbon Portal binary data object client",
		Long: `cpb fetches tabular data objects from the ICOS Carbon Portal by their
persistent identifier, decodes the binary payload and prints the result.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("meta-endpoint", sparql.DefaultEndpoint, "SPARQL metadata endpoint")
	flags.String("data-endpoint", payload.DefaultEndpoint, "tabular payload endpoint")
	flags.String("cache-root", payload.DefaultCacheRoot, "local payload archive root (empty disables)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	for _, name := range []string{"meta-endpoint", "data-endpoint", "cache-root", "log-level"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logging.Init(logging.Config{Level: viper.GetString("log-level")})
	}

	root.AddCommand(versionCmd(), fetchCmd(), infoCmd(), countryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", version.Library, version.Release)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// handleOptions builds the dobj options shared by the data commands from
// the resolved configuration.
func handleOptions() ([]dobj.Option, error) {
	store, err := payload.NewStore(
		payload.WithEndpoint(viper.GetString("data-endpoint")),
		payload.WithCacheRoot(viper.GetString("cache-root")))
	if err != nil {
		return nil, err
	}

	return []dobj.Option{
		dobj.WithMetadata(sparql.NewClient(viper.GetString("meta-endpoint"), nil)),
		dobj.WithSource(store),
	}, nil
}

func fetchCmd() *cobra.Command {
	var columns []string
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch <pid>",
		Short: "Fetch a data object and print it as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := handleOptions()
			if err != nil {
				return err
			}

			var tbl *table.Table
			if len(columns) > 0 {
				tbl, err = cpb.FetchColumns(cmd.Context(), args[0], columns, opts...)
			} else {
				tbl, err = cpb.Fetch(cmd.Context(), args[0], opts...)
			}
			if err != nil {
				return err
			}

			return writeCSV(tbl, limit)
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "column names to fetch (default all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many rows (0 means all)")

	return cmd
}

func writeCSV(tbl *table.Table, limit int) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(tbl.Names()); err != nil {
		return err
	}

	rows := tbl.Rows()
	if limit > 0 && limit < rows {
		rows = limit
	}
	cols := tbl.Columns()
	record := make([]string, len(cols))
	for row := 0; row < rows; row++ {
		for i := range cols {
			record[i] = formatValue(cols[i].Value(row))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

func formatValue(v any) string {
	switch vv := v.(type) {
	case time.Time:
		// time-of-day columns decode onto the epoch day
		if vv.Year() == 1970 && vv.YearDay() == 1 {
			return vv.Format("15:04:05")
		}

		return vv.Format(time.RFC3339)
	case float32:
		return strconv.FormatFloat(float64(vv), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <pid>",
		Short: "Show metadata of a data object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := handleOptions()
			if err != nil {
				return err
			}

			d, err := cpb.Open(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if !d.Valid() {
				return fmt.Errorf("object %s is not known to the metadata store", args[0])
			}

			info := d.Info()
			fmt.Printf("PID:      %s\n", info.ID)
			fmt.Printf("Rows:     %d\n", info.Rows)
			fmt.Printf("Format:   %s\n", info.ObjFormat)
			fmt.Printf("Columns:  %s\n", strings.Join(info.Columns, ", "))
			fmt.Printf("Citation: %s\n", info.Citation)

			if st, err := d.Station(cmd.Context()); err == nil && st != nil {
				fmt.Printf("Station:  %s (lat %.4f, lon %.4f, elevation %.1f m)\n",
					st.Name, st.Latitude, st.Longitude, st.Elevation)
			}

			lic := d.Licence()
			fmt.Printf("Licence:  %s <%s>\n", lic.Name, lic.URL)

			return nil
		},
	}
}

func countryCmd() *cobra.Command {
	var code, name, search, latlon string

	cmd := &cobra.Command{
		Use:   "country",
		Short: "Look up country information",
		Long: `Look up country information in the embedded dataset by code, name or
free-text search, or reverse geocode a "lat,lon" pair.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case code != "":
				c, err := country.ByCode(code)
				if err != nil {
					return err
				}

				return printCountries(*c)
			case name != "":
				matches, err := country.ByName(name)
				if err != nil {
					return err
				}

				return printCountries(matches...)
			case search != "":
				matches, err := country.Search(search)
				if err != nil {
					return err
				}

				return printCountries(matches...)
			case latlon != "":
				lat, lon, err := parseLatLon(latlon)
				if err != nil {
					return err
				}
				g, err := country.NewGeocoder()
				if err != nil {
					return err
				}
				c, err := g.Reverse(cmd.Context(), lat, lon)
				if err != nil {
					return err
				}

				return printCountries(*c)
			default:
				return fmt.Errorf("one of --code, --name, --search or --latlon is required")
			}
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "ISO 3166-1 alpha-2 or alpha-3 code")
	cmd.Flags().StringVar(&name, "name", "", "country name, partial names match")
	cmd.Flags().StringVar(&search, "search", "", "free-text search over all fields")
	cmd.Flags().StringVar(&latlon, "latlon", "", `reverse geocode "lat,lon"`)

	return cmd
}

func parseLatLon(s string) (float64, float64, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude %q: %w", parts[1], err)
	}

	return lat, lon, nil
}

func printCountries(matches ...country.Country) error {
	for _, c := range matches {
		fmt.Printf("%s (%s/%s)  %s, %s\n",
			c.Name.Common, c.CCA2, c.CCA3, c.Subregion, c.Region)
	}

	return nil
}
