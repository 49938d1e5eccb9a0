package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/roundbuy/backend-sub000/internal/app/setup"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/spf13/cobra"
)

func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [reference-code]",
		Short: "Show an issue, dispute or claim by its reference code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _, err := domain.ParseCode(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, _ *setup.Dependencies, uc *setup.UseCases) error {
				switch kind {
				case domain.CodeIssue:
					return showIssue(ctx, uc, args[0])
				case domain.CodeDispute:
					return showDispute(ctx, uc, args[0])
				default:
					return showClaim(ctx, uc, args[0])
				}
			})
		},
	}
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func overdueNote(awaiting bool) string {
	if !awaiting {
		return ""
	}
	return " " + color.New(color.FgRed).Sprint("(awaiting sweep)")
}

func showIssue(ctx context.Context, uc *setup.UseCases, code string) error {
	out, err := uc.IssueUsecase.GetIssueByCode(ctx, code)
	if err != nil {
		return err
	}
	issue := out.Issue
	fmt.Printf("Issue: %s%s\n", issue.Code, overdueNote(out.AwaitingSweep))
	fmt.Printf("Status: %s\n", issue.Status)
	fmt.Printf("Parties: %s -> %s\n", issue.CreatedBy, issue.OtherPartyID)
	fmt.Printf("Type: %s\n", issue.Type)
	fmt.Printf("Deadline: %s\n", issue.Deadline.Format(time.RFC3339))
	if issue.EscalatedDisputeID != nil {
		fmt.Printf("Escalated to dispute: %s\n", *issue.EscalatedDisputeID)
	}

	messages, err := uc.IssueUsecase.ListIssueMessages(ctx, issue.ID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nAT\tTYPE\tBODY")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.CreatedAt.Format(time.RFC3339), m.MessageType, m.Body)
	}
	return w.Flush()
}

func showDispute(ctx context.Context, uc *setup.UseCases, code string) error {
	out, err := uc.DisputeUsecase.GetDisputeByCode(ctx, code)
	if err != nil {
		return err
	}
	d := out.Dispute
	fmt.Printf("Dispute: %s%s\n", d.Code, overdueNote(out.AwaitingSweep))
	fmt.Printf("Status: %s  Phase: %s  Priority: %s\n", d.Status, d.Phase, d.Priority)
	fmt.Printf("Buyer: %s  Seller: %s\n", d.UserID, d.SellerID)
	fmt.Printf("Negotiation deadline: %s\n", stamp(d.NegotiationDeadline))
	fmt.Printf("Dispute deadline: %s\n", stamp(d.DisputeDeadline))
	fmt.Printf("Resolution deadline: %s\n", stamp(d.ResolutionDeadline))
	fmt.Printf("Claim deadline: %s\n", stamp(d.ClaimDeadline))
	if out.PendingAction != domain.OverdueNone {
		fmt.Printf("Pending sweeper action: %s\n", color.New(color.FgYellow).Sprint(out.PendingAction))
	}

	messages, err := uc.DisputeUsecase.ListDisputeMessages(ctx, d.ID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nAT\tTYPE\tBODY")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.CreatedAt.Format(time.RFC3339), m.MessageType, m.Body)
	}
	return w.Flush()
}

func showClaim(ctx context.Context, uc *setup.UseCases, code string) error {
	out, err := uc.ClaimUsecase.GetClaimByCode(ctx, code)
	if err != nil {
		return err
	}
	c := out.Claim
	fmt.Printf("Claim: %s%s\n", c.Code, overdueNote(out.AwaitingSweep))
	fmt.Printf("Status: %s  Priority: %s  Mode: %s\n", c.Status, c.Priority, c.ResolutionMode)
	fmt.Printf("Buyer: %s  Seller: %s\n", c.UserID, c.SellerID)
	fmt.Printf("Deadline: %s\n", c.Deadline.Format(time.RFC3339))
	if c.AdminID != nil {
		fmt.Printf("Admin: %s (assigned %s)\n", *c.AdminID, stamp(c.AssignedAt))
	}
	if c.AdminDecision != nil {
		fmt.Printf("Decision: %s\n", *c.AdminDecision)
	}
	if c.ResolutionAmount != nil {
		fmt.Printf("Amount: %s\n", c.ResolutionAmount.StringFixed(2))
	}
	return nil
}
