package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datedmemo/datedmemo/pkg/memo"
)

var (
	dateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	textStyle = lipgloss.NewStyle().PaddingLeft(2)
	listBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 1)
)

func listCmd() *cobra.Command {
	var (
		offset  string
		excerpt int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the memos in date order",
		Long: `Print every memo in date order.

Dates are shown in the zone given by --offset, in minutes east of UTC
(e.g. -300 for US Eastern standard time). The default is local time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if offset != "" {
				minutes, err := memo.ParseOffset(offset)
				if err != nil {
					return err
				}
				loc = memo.ZoneForOffset(minutes)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			newLogger(cfg, os.Stderr)

			ctx := commandContext(cmd)
			store, err := memo.Open(ctx, storeConfig(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			memos, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(memos) == 0 {
				warn("No memos")
				return nil
			}
			renderList(os.Stdout, memos, time.Now(), loc, excerpt)
			return nil
		},
	}

	cmd.Flags().StringVarP(&offset, "offset", "o", "", "UTC offset in minutes for displayed dates")
	cmd.Flags().IntVarP(&excerpt, "excerpt", "n", 0, "Truncate memo text to n characters (0 prints it all)")

	return cmd
}

// renderList writes one boxed entry per memo.
func renderList(w io.Writer, memos []memo.Memo, now time.Time, loc *time.Location, excerpt int) {
	for _, m := range memos {
		text := m.Text
		if excerpt > 0 {
			text = m.Excerpt(excerpt)
		}
		header := dateStyle.Render(memo.FormatDate(m.Date, loc)) + " " +
			mutedStyle.Render("("+memo.Humanize(m.Date, now, loc)+")")

		lines := []string{header}
		if strings.TrimSpace(text) != "" {
			lines = append(lines, textStyle.Render(text))
		}
		lines = append(lines, mutedStyle.Render(m.ID))

		fmt.Fprintln(w, listBox.Render(strings.Join(lines, "\n")))
	}
}
