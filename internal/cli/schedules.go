package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listPage   int
	searchTerm string
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List or search schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if searchTerm != "" {
			result, err := api.SearchSchedules(ctx, searchTerm)
			if err != nil {
				return err
			}
			for _, s := range result.Schedules {
				printSchedule(s.ScheduleID, s.Title, s.HostName, s.Recurrence, s.Status)
			}
			fmt.Printf("%d match(es)\n", result.Count)
			return nil
		}

		page, err := api.Schedules(ctx, cfg.Identity.PlatformID, listLimit, listPage)
		if err != nil {
			return err
		}
		for _, s := range page.Data {
			printSchedule(s.ScheduleID, s.Title, s.HostName, s.Recurrence, s.Status)
		}
		printPageFooter(page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalCount)
		return nil
	},
}

func printSchedule(id, title, host, recurrence, status string) {
	fmt.Printf("  %-24s %-30s host=%s recurrence=%s status=%s\n", id, title, host, recurrence, status)
}

var occurrencesCmd = &cobra.Command{
	Use:   "occurrences <scheduleId> <hostId>",
	Short: "List the sittings of a schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		page, err := api.Occurrences(ctx, cfg.Identity.PlatformID, args[1], args[0], listLimit, listPage)
		if err != nil {
			return err
		}
		for _, o := range page.Data {
			fmt.Printf("  %-24s %-30s %s -> %s status=%s\n",
				o.ID, o.Title, o.StartDateTime, o.EndDateTime, o.Status)
		}
		printPageFooter(page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalCount)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <scheduleId> <occurrenceId>",
	Short: "Show attendance logs for an occurrence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		page, err := api.ParticipantLogs(ctx, args[0], cfg.Identity.PlatformID, args[1], listLimit, listPage)
		if err != nil {
			return err
		}
		for _, p := range page.Data {
			fmt.Printf("  %s (%s) total=%s\n", p.ParticipantName, p.Role, formatSeconds(p.TotalDuration))
			for _, sesh := range p.Sessions {
				fmt.Printf("    join=%s leave=%s duration=%s\n",
					sesh.JoinTime, sesh.LeaveTime, formatSeconds(sesh.Duration))
			}
		}
		printPageFooter(page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalCount)
		return nil
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List registered platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		platforms, err := api.Platforms(ctx)
		if err != nil {
			return err
		}
		for _, p := range platforms {
			fmt.Printf("  %s\n", p.Name)
		}
		return nil
	},
}

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "List stored recordings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		page, err := api.Recordings(ctx, listLimit, listPage)
		if err != nil {
			return err
		}
		for _, r := range page.Data {
			fmt.Printf("  %-40s schedule=%s occurrence=%s created=%s\n",
				r.Filename, r.ScheduleID, r.OccurrenceID, r.CreatedAt)
		}
		printPageFooter(page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalCount)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show schedule and occurrence aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		scheduleStats, err := api.ScheduleStats(ctx)
		if err != nil {
			return err
		}
		occurrenceStats, err := api.OccurrenceStats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("schedules:   %d\n", scheduleStats.TotalSchedules)
		fmt.Printf("occurrences: %d\n", occurrenceStats.TotalOccurrences)
		if len(scheduleStats.ByPlatform) > 0 {
			fmt.Println("by platform:")
			for _, b := range scheduleStats.ByPlatform {
				fmt.Printf("  %-20s %d\n", b.Platform, b.Count)
			}
		}
		if len(scheduleStats.ByRecurrence) > 0 {
			fmt.Println("by recurrence:")
			for _, b := range scheduleStats.ByRecurrence {
				fmt.Printf("  %-20s %d\n", b.Recurrence, b.Count)
			}
		}
		return nil
	},
}

func printPageFooter(current, total, count int) {
	fmt.Printf("page %d/%d, %d total\n", current, total, count)
}

func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}

func init() {
	rootCmd.AddCommand(schedulesCmd, occurrencesCmd, logsCmd, platformsCmd, recordingsCmd, statsCmd)

	for _, c := range []*cobra.Command{schedulesCmd, occurrencesCmd, logsCmd, recordingsCmd} {
		c.Flags().IntVar(&listLimit, "limit", 10, "page size")
		c.Flags().IntVar(&listPage, "page", 1, "page number")
	}
	schedulesCmd.Flags().StringVar(&searchTerm, "search", "", "search schedules by text instead of listing")
}
