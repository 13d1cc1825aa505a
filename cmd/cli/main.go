package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/autosave/internal/adapter/http/dto"
)

type options struct {
	baseURL string
	timeout time.Duration
	json    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "savings-cli",
		Short:         "Automated savings CLI tool",
		Long:          `A command line interface for operating the automated savings API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the savings API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(deductionsCmd(opts), walletCmd(opts))
	return rootCmd
}

func (o *options) client() *apiClient {
	return &apiClient{baseURL: o.baseURL, http: &http.Client{Timeout: o.timeout}}
}

func deductionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deductions",
		Short: "Auto-deduction operations",
	}

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Run one batch of due auto-deductions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary dto.ProcessingSummaryResponse
			err := opts.client().post(cmd.Context(), "/api/v1/deductions/process", nil, &summary)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && summary.Contended {
				fmt.Fprintln(cmd.OutOrStdout(), "Another batch is already running; nothing processed")
				return err
			}
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), &summary)
			return nil
		},
	}

	var within string
	var limit int
	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List schedules due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("within", within)
			query.Set("limit", strconv.Itoa(limit))

			var report dto.UpcomingResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/deductions/upcoming", query, &report); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printUpcoming(cmd.OutOrStdout(), &report)
			return nil
		},
	}
	upcomingCmd.Flags().StringVar(&within, "within", "7d", "Window to look ahead, in days (7d) or as a duration (36h)")
	upcomingCmd.Flags().IntVar(&limit, "limit", 50, "Maximum schedules to list")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show active schedule statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats dto.StatsResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/deductions/stats", nil, &stats); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Active schedules: %d\n", stats.ActiveSchedules)
			fmt.Fprintf(out, "Total per cycle:  %s\n", stats.TotalAmount)
			fmt.Fprintf(out, "Distinct users:   %d\n", stats.DistinctUsers)
			fmt.Fprintf(out, "Overdue:          %d\n", stats.OverdueCount)
			return nil
		},
	}

	cmd.AddCommand(processCmd, upcomingCmd, statsCmd)
	return cmd
}

func walletCmd(opts *options) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}
	cmd.PersistentFlags().StringVar(&userID, "user", "", "Owner of the wallets")
	_ = cmd.MarkPersistentFlagRequired("user")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListWalletsResponse
			if err := opts.client().get(cmd.Context(), walletsPath(userID), nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBALANCE\tTARGET\tLOCKED")
			for _, w := range resp.Wallets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\n", w.ID, truncate(w.Name, 30), w.CurrentAmount, w.TargetAmount, w.IsLocked)
			}
			return tw.Flush()
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <wallet-id>",
		Short: "Show the lock status of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status dto.LockStatusResponse
			if err := opts.client().get(cmd.Context(), walletsPath(userID)+"/"+url.PathEscape(args[0])+"/lock", nil, &status); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), status)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wallet:   %s\n", status.WalletID)
			fmt.Fprintf(out, "State:    %s\n", status.State)
			fmt.Fprintf(out, "Balance:  %s\n", status.CurrentAmount)
			if status.TargetDate != nil {
				fmt.Fprintf(out, "Until:    %s (%d days)\n", status.TargetDate.Format("2006-01-02"), status.DaysRemaining)
				fmt.Fprintf(out, "Penalty:  %s%% (%s if unlocked now)\n", status.PenaltyPercentage, status.PenaltyIfUnlockedNow)
			}
			return nil
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <wallet-id>",
		Short: "Break a wallet balance down by ledger category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec dto.ReconciliationResponse
			if err := opts.client().get(cmd.Context(), walletsPath(userID)+"/"+url.PathEscape(args[0])+"/reconciliation", nil, &rec); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance:         %s\n", rec.CurrentAmount)
			fmt.Fprintf(out, "Round-ups:       %s\n", rec.RoundUps)
			fmt.Fprintf(out, "Auto-deductions: %s\n", rec.AutoDeductions)
			fmt.Fprintf(out, "Penalties:       %s\n", rec.Penalties)
			fmt.Fprintf(out, "Unattributed:    %s\n", rec.Unattributed)
			return nil
		},
	}

	cmd.AddCommand(listCmd, statusCmd, reconcileCmd)
	return cmd
}

func walletsPath(userID string) string {
	return "/api/v1/users/" + url.PathEscape(userID) + "/wallets"
}

func printSummary(out io.Writer, s *dto.ProcessingSummaryResponse) {
	fmt.Fprintln(out, s.Message)
	fmt.Fprintf(out, "Credited: %s\n", s.CreditedAmount)

	if len(s.Failed) == 0 && len(s.Skipped) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEDULE\tSTATUS\tAMOUNT\tERROR")
	for _, group := range [][]dto.ProcessedItemResponse{s.Failed, s.Skipped} {
		for _, item := range group {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ScheduleID, item.Status, item.Amount, truncate(item.Error, 60))
		}
	}
	_ = tw.Flush()
}

func printUpcoming(out io.Writer, r *dto.UpcomingResponse) {
	fmt.Fprintf(out, "Due before %s: %d schedules (%d overdue)\n", r.Until.Format(time.RFC3339), len(r.Schedules), r.OverdueCount)
	if len(r.Schedules) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEDULE\tWALLET\tAMOUNT\tFREQUENCY\tDUE")
	for _, s := range r.Schedules {
		due := s.NextDueDate.Format("2006-01-02 15:04")
		if s.Overdue {
			due += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, truncate(s.WalletName, 24), s.Amount, s.Frequency, due)
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
