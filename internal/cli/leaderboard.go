package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"compboard/pkg/client"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd prints a board from a running server. The combined view is
// re-sorted by private score locally when private columns are visible, matching
// the dashboard.
func NewLeaderboardCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:       "leaderboard [task1|task2|combined]",
		Short:     "Print a leaderboard from a running server",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"task1", "task2", "combined"},
		RunE: func(cmd *cobra.Command, args []string) error {
			board := "combined"
			if len(args) > 0 {
				board = args[0]
			}
			api := client.New(*serverURL, client.NewFileTokenStore(client.DefaultTokenPath()))
			switch board {
			case "task1":
				return printTaskBoard(cmd.Context(), api, 1)
			case "task2":
				return printTaskBoard(cmd.Context(), api, 2)
			case "combined":
				return printCombinedBoard(cmd.Context(), api)
			default:
				return fmt.Errorf("unknown board %q", board)
			}
		},
	}
}

func printTaskBoard(ctx context.Context, api *client.Client, taskID int) error {
	settings, err := api.LeaderboardSettings(ctx)
	if err != nil {
		return err
	}
	entries, err := api.TaskLeaderboard(ctx, taskID)
	if err != nil {
		return err
	}

	showPrivate := client.ShowPrivateTaskColumn(settings, entries)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if showPrivate {
		fmt.Fprintln(w, "Rank\tTeam\tPublic Score\tPrivate Score")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Rank, e.TeamName, client.FormatFixed(e.Score, 4), client.FormatScore(e.PrivateScore, 4))
		}
	} else {
		fmt.Fprintln(w, "Rank\tTeam\tPublic Score")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.Rank, e.TeamName, client.FormatFixed(e.Score, 4))
		}
	}
	return w.Flush()
}

func printCombinedBoard(ctx context.Context, api *client.Client) error {
	settings, err := api.LeaderboardSettings(ctx)
	if err != nil {
		return err
	}
	entries, err := api.CombinedLeaderboard(ctx)
	if err != nil {
		return err
	}

	showPrivate := client.ShowPrivateCombinedColumns(settings, entries)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if showPrivate {
		sorted := client.SortByPrivateCombined(entries)
		fmt.Fprintln(w, "Rank\tTeam\tTask 1\tTask 2\tCombined\tPrivate Combined")
		for i, e := range sorted {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i+1, e.TeamName,
				client.FormatScore(e.Task1Score, 4),
				client.FormatScore(e.Task2Score, 4),
				client.FormatFixed(e.CombinedScore, 8),
				client.FormatScore(e.PrivateCombinedScore, 8))
		}
	} else {
		fmt.Fprintln(w, "Rank\tTeam\tTask 1\tTask 2\tCombined")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				e.Rank, e.TeamName,
				client.FormatScore(e.Task1Score, 4),
				client.FormatScore(e.Task2Score, 4),
				client.FormatFixed(e.CombinedScore, 8))
		}
	}
	return w.Flush()
}
