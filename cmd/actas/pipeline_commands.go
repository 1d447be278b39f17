package main

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"actas/internal/config"
	"actas/internal/meeting"
	"actas/internal/pipeline"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var audioPath string

	cmd := &cobra.Command{
		Use:   "transcribe <meeting-id>",
		Short: "Transcribe recorded audio and draft the acta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, _ *config.Config) error {
				m, err := p.Transcribe(cmd.Context(), args[0], owner, audioPath)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Transcribed meeting %s: %d segments\n", m.ID, len(m.Transcript))
				if strings.TrimSpace(m.ActaContent) != "" {
					fmt.Fprintln(out, "Acta drafted; meeting is ready for review")
				} else {
					fmt.Fprintln(out, "Draft generation failed; run `actas draft` to retry")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the recorded audio file")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <meeting-id>",
		Short: "Return a meeting stuck in processing to recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, _ *config.Config) error {
				m, err := p.ResetProcessing(cmd.Context(), args[0], owner)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Meeting %s is back in %s; rerun `actas transcribe` to retry\n", m.ID, m.Status)
				return nil
			})
		},
	}
}

func newDraftCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "draft <meeting-id>",
		Short: "Regenerate acta content from the stored transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, _ *config.Config) error {
				m, err := p.GenerateDraft(cmd.Context(), args[0], owner)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Acta drafted for meeting %s; status %s\n", m.ID, m.Status)
				return nil
			})
		},
	}
}

func newSignCommand(ctx *commandContext) *cobra.Command {
	var roleFlag string
	var name string
	var imagePath string

	cmd := &cobra.Command{
		Use:   "sign <meeting-id>",
		Short: "Record a president or secretary signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			role, ok := meeting.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("unknown role %q (use president or secretary)", roleFlag)
			}
			image, err := encodeSignatureImage(imagePath)
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, _ *config.Config) error {
				m, err := p.RecordSignature(cmd.Context(), args[0], owner, role, name, image)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s signature for meeting %s (signatures: %s)\n", role, m.ID, m.SignatureStatus)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&roleFlag, "role", "", "Signer role: president or secretary")
	cmd.Flags().StringVar(&name, "name", "", "Signer name")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a PNG of the captured signature")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newSendCommand(ctx *commandContext) *cobra.Command {
	var toFlags []string
	var subject string
	var message string

	cmd := &cobra.Command{
		Use:   "send <meeting-id>",
		Short: "Email the acta PDF and mark the meeting sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			recipients, err := parseRecipients(toFlags)
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, _ *config.Config) error {
				m, err := p.Send(cmd.Context(), args[0], owner, recipients, subject, message)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Acta for meeting %s sent to %d recipients\n", m.ID, len(m.Recipients))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&toFlags, "to", nil, `Recipient as "Name <email>" (repeatable)`)
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject (defaults to Acta - {building})")
	cmd.Flags().StringVar(&message, "message", "", "Custom note included in the email body")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <meeting-id>",
		Short: "Write the acta PDF to the export directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ctx.ownerID()
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline.Pipeline, cfg *config.Config) error {
				target := strings.TrimSpace(dir)
				if target == "" {
					target = cfg.Paths.ExportDir
				}
				path, err := p.Export(cmd.Context(), args[0], owner, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (defaults to paths.export_dir)")
	return cmd
}

func parseRecipients(values []string) ([]meeting.Recipient, error) {
	recipients := make([]meeting.Recipient, 0, len(values))
	for i, value := range values {
		addr, err := mail.ParseAddress(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i+1, err)
		}
		name := addr.Name
		if name == "" {
			name = addr.Address
		}
		recipients = append(recipients, meeting.Recipient{
			ID:    fmt.Sprintf("r-%d", i),
			Name:  name,
			Email: addr.Address,
		})
	}
	return recipients, nil
}

func encodeSignatureImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read signature image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("signature image %s is empty", path)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
