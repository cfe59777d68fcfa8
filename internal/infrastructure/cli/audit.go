package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/taskdesk/pkg/application"
	"github.com/felixgeelhaar/taskdesk/pkg/domain"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and verify the assistant audit trail",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openAudit()
		if err != nil {
			return err
		}

		fmt.Println("Verifying audit trail integrity...")
		violations, err := service.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		if len(violations) == 0 {
			fmt.Println("Audit trail is intact and verified.")
			return nil
		}

		fmt.Printf("Found %d integrity violations:\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  - %s\n", v)
		}
		return fmt.Errorf("audit trail has %d integrity violations", len(violations))
	},
}

var auditUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarize oracle and fallback calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openAudit()
		if err != nil {
			return err
		}
		stats, err := service.Summarize()
		if err != nil {
			return fmt.Errorf("summarize audit trail: %w", err)
		}
		fmt.Println(renderUsage(stats))
		return nil
	},
}

var auditTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List recorded assistant calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openAudit()
		if err != nil {
			return err
		}
		events, err := service.GetTimeline()
		if err != nil {
			return fmt.Errorf("load audit trail: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No audit events recorded.")
			return nil
		}
		for _, e := range events {
			fmt.Println(renderEvent(e))
		}
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditVerifyCmd, auditUsageCmd, auditTimelineCmd)
	RootCmd.AddCommand(auditCmd)
}

func openAudit() (*application.AuditService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return wiring.BuildAuditService(cfg.Audit.Root)
}

func renderUsage(s domain.UsageStats) string {
	out := headerStyle.Render("Assistant usage") + "\n"
	out += fmt.Sprintf("Calls:     %d (oracle %d, fallback %d)\n", s.TotalCalls, s.OracleCalls, s.FallbackCalls)
	out += fmt.Sprintf("Tokens:    %d in / %d out\n", s.InputTokens, s.OutputTokens)
	if !s.LastCallAt.IsZero() {
		out += fmt.Sprintf("Last call: %s\n", s.LastCallAt.Format("2006-01-02 15:04:05"))
	}

	actions := make([]string, 0, len(s.ByAction))
	for a := range s.ByAction {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	for _, a := range actions {
		out += fmt.Sprintf("  %-12s %d\n", a, s.ByAction[a])
	}
	return out
}

func renderEvent(e domain.Event) string {
	line := fmt.Sprintf("%s  %-11s %-8s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor)
	if reason, ok := e.Metadata["reason"].(string); ok && reason != "" {
		line += " " + mutedStyle.Render(reason)
	}
	return line
}
