package commands

import (
	"strings"

	"github.com/maltedev/zoom-price-scraper/internal/scraper"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd, detailsCmd, offersCmd, runCmd)
}

func dispatch(cmd *cobra.Command, op scraper.Operation) error {
	res, err := stack.Dispatcher.Dispatch(cmd.Context(), op)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), res)
}

var searchCmd = &cobra.Command{
	Use:   "search TERM...",
	Short: "Searches the site and stores every result's detail path in the resolver cache.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, scraper.Search{Term: strings.Join(args, " ")})
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details ID",
	Short: "Prints the technical details of a previously discovered product.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, scraper.Details{ProductID: args[0]})
	},
}

var offersCmd = &cobra.Command{
	Use:   "offers ID",
	Short: "Prints the store offers of a previously discovered product.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, scraper.Offers{ProductID: args[0]})
	},
}

var runCmd = &cobra.Command{
	Use:   "run OPERATION ARG",
	Short: "Runs an operation by name: search, details or offers.",
	Args: cobra.MatchAll(cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
		_, err := scraper.ParseKind(args[0])
		return err
	}),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := scraper.NewOperation(args[0], args[1])
		if err != nil {
			return err
		}
		return dispatch(cmd, op)
	},
}
