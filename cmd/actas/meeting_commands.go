package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"actas/internal/meeting"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var building string
	var attendees int
	var date string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a meeting in recording state",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			meetingDate, err := parseDate(date)
			if err != nil {
				return err
			}
			return ctx.withLockedStore(func(store *meeting.Store) error {
				m, err := store.Create(cmd.Context(), owner, meeting.NewMeeting{
					BuildingName:   building,
					AttendeesCount: attendees,
					Date:           meetingDate,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created meeting %s (%s, %d attendees)\n", m.ID, m.BuildingName, m.AttendeesCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&building, "building", "b", "", "Community or building name")
	cmd.Flags().IntVarP(&attendees, "attendees", "a", 0, "Number of attendees")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Meeting date (YYYY-MM-DD or RFC3339; defaults to now)")
	_ = cmd.MarkFlagRequired("building")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List meetings, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *meeting.Store) error {
				meetings, err := store.List(cmd.Context(), owner)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(meetings) == 0 {
					fmt.Fprintln(out, "No meetings")
					return nil
				}

				colorize := shouldColorize(os.Stdout)
				rows := make([][]string, 0, len(meetings))
				for _, m := range meetings {
					rows = append(rows, []string{
						m.ID,
						m.BuildingName,
						m.Date.Format("2006-01-02"),
						strconv.Itoa(m.AttendeesCount),
						statusLabel(m.Status, colorize),
						signatureSummary(m),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Building", "Date", "Attendees", "Status", "Signatures"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))

				stats, err := store.Stats(cmd.Context(), owner)
				if err != nil {
					return err
				}
				summary := make([]string, 0, len(stats))
				for _, status := range meeting.AllStatuses() {
					if count := stats[status]; count > 0 {
						summary = append(summary, fmt.Sprintf("%d %s", count, status))
					}
				}
				fmt.Fprintf(out, "%d meetings (%s)\n", len(meetings), strings.Join(summary, ", "))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var withTranscript bool
	var withActa bool

	cmd := &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show one meeting in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *meeting.Store) error {
				m, err := store.GetByID(cmd.Context(), args[0], owner)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(os.Stdout)

				fmt.Fprintf(out, "Meeting:    %s\n", m.ID)
				fmt.Fprintf(out, "Building:   %s\n", m.BuildingName)
				fmt.Fprintf(out, "Date:       %s\n", m.Date.Format("2006-01-02 15:04"))
				fmt.Fprintf(out, "Attendees:  %d\n", m.AttendeesCount)
				fmt.Fprintf(out, "Status:     %s\n", statusLabel(m.Status, colorize))
				if m.DurationSeconds > 0 {
					fmt.Fprintf(out, "Duration:   %s\n", meeting.FormatOffset(float64(m.DurationSeconds)))
				}
				if m.AudioPath != "" {
					fmt.Fprintf(out, "Audio:      %s\n", m.AudioPath)
				}
				if m.SignatureStatus != "" {
					fmt.Fprintf(out, "Signatures: %s\n", signatureSummary(m))
				}
				if len(m.Recipients) > 0 {
					names := make([]string, 0, len(m.Recipients))
					for _, r := range m.Recipients {
						names = append(names, fmt.Sprintf("%s <%s>", r.Name, r.Email))
					}
					fmt.Fprintf(out, "Recipients: %s\n", strings.Join(names, ", "))
				}

				if withTranscript && m.HasTranscript() {
					fmt.Fprintln(out, "\nTranscript:")
					for _, seg := range m.Transcript {
						speaker := ""
						if seg.Speaker != "" {
							speaker = seg.Speaker + ": "
						}
						fmt.Fprintf(out, "  [%s] %s%s\n", seg.Timestamp, speaker, seg.Text)
					}
				}
				if withActa && strings.TrimSpace(m.ActaContent) != "" {
					fmt.Fprintln(out, "\nActa:")
					fmt.Fprintln(out, m.ActaContent)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withTranscript, "transcript", false, "Print the full transcript")
	cmd.Flags().BoolVar(&withActa, "acta", false, "Print the drafted acta content")
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var building string
	var attendees int
	var date string
	var actaFile string

	cmd := &cobra.Command{
		Use:   "update <meeting-id>",
		Short: "Update meeting details or edited acta content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}

			var fields meeting.UpdateFields
			if cmd.Flags().Changed("building") {
				fields.BuildingName = &building
			}
			if cmd.Flags().Changed("attendees") {
				fields.AttendeesCount = &attendees
			}
			if cmd.Flags().Changed("date") {
				parsed, err := parseDate(date)
				if err != nil {
					return err
				}
				fields.Date = &parsed
			}
			if cmd.Flags().Changed("acta-file") {
				content, err := os.ReadFile(actaFile)
				if err != nil {
					return fmt.Errorf("read acta file: %w", err)
				}
				text := string(content)
				fields.ActaContent = &text
			}

			return ctx.withLockedStore(func(store *meeting.Store) error {
				m, err := store.Update(cmd.Context(), args[0], owner, fields)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated meeting %s\n", m.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&building, "building", "b", "", "Community or building name")
	cmd.Flags().IntVarP(&attendees, "attendees", "a", 0, "Number of attendees")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Meeting date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&actaFile, "acta-file", "", "File holding edited acta content")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <meeting-id>",
		Short: "Delete a meeting and its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withLockedStore(func(store *meeting.Store) error {
				removed, err := store.Delete(cmd.Context(), args[0], owner)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("meeting %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed meeting %s\n", args[0])
				return nil
			})
		},
	}
}

func signatureSummary(m *meeting.Meeting) string {
	if m.SignatureStatus == "" {
		return "-"
	}
	parts := make([]string, 0, 2)
	if m.President != nil {
		parts = append(parts, "president")
	}
	if m.Secretary != nil {
		parts = append(parts, "secretary")
	}
	if len(parts) == 0 {
		return string(m.SignatureStatus)
	}
	return fmt.Sprintf("%s (%s)", m.SignatureStatus, strings.Join(parts, ", "))
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD or RFC3339)", value)
}
