package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/pkg/client"
	"github.com/spf13/cobra"
)

func newContactCmd(a *app) *cobra.Command {
	var req client.ContactRequest
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := a.client.Contact().Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd, "message sent (%s)\n", rec.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "your name")
	f.StringVar(&req.Email, "email", "", "reply address")
	f.StringVar(&req.Subject, "subject", "", "optional subject")
	f.StringVar(&req.Message, "message", "", "message text")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderation commands (need --token)",
	}
	cmd.AddCommand(newAdminDeleteCmd(a), newAdminInboxCmd(a), newAdminResetCmd(a))
	return cmd
}

func newAdminDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <photos|videos|press> <id>",
		Short: "Delete a content item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			var del func() error
			switch kind {
			case model.KindPhotos:
				del = func() error { return a.client.Photos().Delete(cmd.Context(), args[1]) }
			case model.KindVideos:
				del = func() error { return a.client.Videos().Delete(cmd.Context(), args[1]) }
			default:
				del = func() error { return a.client.Press().Delete(cmd.Context(), args[1]) }
			}
			if err := del(); err != nil {
				return err
			}
			printf(cmd, "deleted %s %s\n", kind, args[1])
			return nil
		},
	}
}

func newAdminInboxCmd(a *app) *cobra.Command {
	var limit, offset int
	var unread bool
	inbox := &cobra.Command{
		Use:   "inbox",
		Short: "List contact messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.Contact().List(cmd.Context(), limit, offset, unread)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tSUBJECT\tRECEIVED\tREAD")
			for _, m := range page.Items {
				fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\t%t\n", m.ID, m.Name, m.Email, m.Subject, humanize.Time(m.CreatedAt), m.Read)
			}
			_ = w.Flush()
			printf(cmd, "%s messages\n", humanize.Comma(int64(page.Total)))
			return nil
		},
	}
	f := inbox.Flags()
	f.IntVar(&limit, "limit", 20, "messages per page")
	f.IntVar(&offset, "offset", 0, "messages to skip")
	f.BoolVar(&unread, "unread", false, "only unread messages")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Contact().MarkRead(cmd.Context(), args[0], true); err != nil {
				return err
			}
			printf(cmd, "marked %s as read\n", args[0])
			return nil
		},
	}
	del := &cobra.Command{
		Use:   "discard <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Contact().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "deleted message %s\n", args[0])
			return nil
		},
	}
	inbox.AddCommand(read, del)
	return inbox
}

func newAdminResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-visitors",
		Short: "Reset the visitor counter to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.client.Visitor().Reset(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd, "visitor counter is now %s\n", humanize.Comma(n))
			return nil
		},
	}
}
