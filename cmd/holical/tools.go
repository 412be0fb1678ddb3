package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"holical/internal/calendar"
	"holical/internal/capture"
	"holical/internal/holiday"
	"holical/internal/ics"
	"holical/internal/model"
	"holical/internal/recurrence"
)

var (
	expandRule   string
	expandAnchor string
	expandFrom   string
	expandTo     string

	outputJSON bool
	locale     string
	country    string

	importCategory string

	exportOut  string
	exportFrom string
	exportTo   string

	snapshotURL    string
	snapshotOut    string
	snapshotWidth  int
	snapshotHeight int
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "List the dates a recurrence rule produces in a window",
	Args:  cobra.NoArgs,
	RunE:  runExpand,
}

var holidaysCmd = &cobra.Command{
	Use:   "holidays <country> <year> [month]",
	Short: "List the holidays of a country",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runHolidays,
}

var monthCmd = &cobra.Command{
	Use:   "month <year> <month>",
	Short: "Print the month grid with events and holidays",
	Args:  cobra.ExactArgs(2),
	RunE:  runMonth,
}

var importCmd = &cobra.Command{
	Use:   "import [file-or-url...]",
	Short: "Import ICS feeds into the event store",
	Long: `Import reads the given files or URLs, or every feed in the config when
none are given. Events keep IDs derived from the feed and the VEVENT UID,
so importing again updates them in place.`,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events and holidays as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the month view of a running server to PNG",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func init() {
	expandCmd.Flags().StringVar(&expandRule, "rule", "", "RRULE, e.g. FREQ=WEEKLY;BYDAY=MO,WE")
	expandCmd.Flags().StringVar(&expandAnchor, "anchor", "", "first date of the series (YYYY-MM-DD)")
	expandCmd.Flags().StringVar(&expandFrom, "from", "", "window start (defaults to the anchor)")
	expandCmd.Flags().StringVar(&expandTo, "to", "", "window end (defaults to one year after the start)")
	_ = expandCmd.MarkFlagRequired("rule")
	_ = expandCmd.MarkFlagRequired("anchor")

	for _, c := range []*cobra.Command{expandCmd, holidaysCmd, monthCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of text")
	}
	holidaysCmd.Flags().StringVar(&locale, "locale", "", "viewer locale (defaults to config)")
	monthCmd.Flags().StringVar(&locale, "locale", "", "viewer locale (defaults to config)")
	monthCmd.Flags().StringVar(&country, "country", "", "holiday country (defaults to config)")

	importCmd.Flags().StringVar(&importCategory, "category", "", "category for events without CATEGORIES")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().StringVar(&exportFrom, "holidays-from", "", "first holiday date to include")
	exportCmd.Flags().StringVar(&exportTo, "holidays-to", "", "last holiday date to include")

	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "page to capture (defaults to this server's /calendar)")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "calendar.png", "PNG output path")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", capture.DefaultWidth, "viewport width")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", capture.DefaultHeight, "viewport height")
}

func runExpand(cmd *cobra.Command, _ []string) error {
	if _, err := recurrence.Parse(expandRule); err != nil {
		return err
	}
	anchor, err := model.ParseDate(expandAnchor)
	if err != nil {
		return err
	}
	from := anchor
	if expandFrom != "" {
		if from, err = model.ParseDate(expandFrom); err != nil {
			return err
		}
	}
	to := model.NewDate(from.Year+1, from.Month, from.Day-1)
	if expandTo != "" {
		if to, err = model.ParseDate(expandTo); err != nil {
			return err
		}
	}

	res := recurrence.ExpandResult(expandRule, anchor, from, to)
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), res.Dates)
	}
	w := cmd.OutOrStdout()
	for _, d := range res.Dates {
		fmt.Fprintf(w, "%s %s\n", d, d.Weekday().String()[:3])
	}
	if res.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "stopped after %d dates (safety cap)\n", len(res.Dates))
	}
	return nil
}

func parseMonthArg(s string) (time.Month, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("month %q must be 1..12", s)
	}
	return time.Month(n), nil
}

func viewerLocale() string {
	if locale != "" {
		return locale
	}
	return cfg.Locale
}

func runHolidays(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("year %q: %w", args[1], err)
	}
	months := []time.Month{}
	if len(args) == 3 {
		m, err := parseMonthArg(args[2])
		if err != nil {
			return err
		}
		months = append(months, m)
	} else {
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
	}

	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	var out []holiday.Upcoming
	for _, m := range months {
		recs, err := a.holidays.Month(args[0], year, m, viewerLocale())
		if err != nil {
			return err
		}
		out = append(out, recs...)
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range out {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Date, r.Name, r.Type)
	}
	return tw.Flush()
}

func runMonth(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("year %q: %w", args[0], err)
	}
	month, err := parseMonthArg(args[1])
	if err != nil {
		return err
	}
	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	c := country
	if c == "" {
		c = cfg.Country
	}
	if _, err := a.assembler.CheckCountry(c, viewerLocale()); err != nil {
		return fmt.Errorf("month: %w", err)
	}
	start, end := a.assembler.VisibleRange(year, month)
	events, err := a.store.EventsForRange(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	m := a.assembler.BuildMonth(year, month, events, c, viewerLocale())
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), m)
	}
	printMonth(cmd.OutOrStdout(), m)
	return nil
}

// printMonth writes a plain text grid followed by the day details.
func printMonth(w io.Writer, m calendar.Month) {
	fmt.Fprintf(w, "%s %d (%s, %s)\n", m.Month, m.Year, m.Country, m.Locale)
	for i := 0; i < 7; i++ {
		wd := time.Weekday((m.FirstWeekday + 1 + i) % 7)
		fmt.Fprintf(w, "%4s", wd.String()[:2])
	}
	fmt.Fprintln(w)
	for _, week := range m.Weeks {
		for _, day := range week {
			mark := " "
			switch {
			case day.IsToday:
				mark = "*"
			case day.IsHoliday:
				mark = "!"
			}
			if day.IsOtherMonth {
				fmt.Fprintf(w, "%4s", "")
				continue
			}
			fmt.Fprintf(w, "%3d%s", day.Date.Day, mark)
		}
		fmt.Fprintln(w)
	}
	for _, day := range m.Days() {
		if day.IsOtherMonth || (day.Holiday == nil && len(day.Events) == 0) {
			continue
		}
		var parts []string
		if day.Holiday != nil {
			parts = append(parts, "["+day.Holiday.Name+"]")
		}
		for _, occ := range day.Events {
			parts = append(parts, strings.TrimSpace(occ.StartTime+" "+occ.Title))
		}
		fmt.Fprintf(w, "%s  %s\n", day.Date, strings.Join(parts, "; "))
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	sources := a.icsSources()
	if len(args) > 0 {
		sources = sources[:0]
		for _, arg := range args {
			sources = append(sources, ics.Source{ID: arg, URL: arg, Category: importCategory})
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no ics sources given or configured in %s", cfgPath)
	}

	res, err := a.syncFeeds(cmd.Context(), sources)
	fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d, deleted %d\n", res.Created, res.Updated, res.Deleted)
	return err
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.store.List(cmd.Context())
	if err != nil {
		return err
	}

	var holidays []holiday.Record
	if exportFrom != "" || exportTo != "" {
		from, err := model.ParseDate(exportFrom)
		if err != nil {
			return fmt.Errorf("--holidays-from: %w", err)
		}
		to, err := model.ParseDate(exportTo)
		if err != nil {
			return fmt.Errorf("--holidays-to: %w", err)
		}
		recs := a.holidays.Range(cfg.Country, cfg.Locale, from, to)
		for d := from; !d.After(to); d = d.AddDays(1) {
			if r, ok := recs[d]; ok {
				holidays = append(holidays, r)
			}
		}
	}

	w := cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	x := ics.Exporter{Location: cfg.Location()}
	return x.Write(w, events, holidays)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	u := snapshotURL
	if u == "" {
		host := cfg.Listen
		if strings.HasPrefix(host, ":") {
			host = "127.0.0.1" + host
		}
		u = "http://" + host + "/calendar"
	}
	return capture.Snapshot(cmd.Context(), capture.Options{
		URL:        u,
		OutputPath: snapshotOut,
		Width:      snapshotWidth,
		Height:     snapshotHeight,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
