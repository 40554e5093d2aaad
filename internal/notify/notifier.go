package notify

import (
	"context"
	"fmt"

	"github.com/zeadev/zeacontrol/internal/entity"
)

// Notifier delivers operator-facing messages. Delivery is best-effort:
// implementations report success as a bool and never block orchestration
// beyond their own bounded timeout.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
}

var statusIcons = map[entity.ProjectStatus]string{
	entity.ProjectStatusNew:       "🆕",
	entity.ProjectStatusDeploying: "🔄",
	entity.ProjectStatusActive:    "🟢",
	entity.ProjectStatusGrace:     "🟡",
	entity.ProjectStatusSuspended: "🔴",
	entity.ProjectStatusFailed:    "❌",
}

func DeploySuccess(project *entity.Project, server *entity.Server) string {
	domain := project.Domain
	if domain == "" {
		domain = "—"
	}
	return fmt.Sprintf(
		"✅ <b>Deploy SUCCESS</b>\nProject: <b>%s</b>\nDomain: %s\nServer: %s",
		project.Name, domain, server.Name,
	)
}

func DeployFailed(project *entity.Project, server *entity.Server, errText string) string {
	if len(errText) > 200 {
		errText = errText[:200]
	}
	return fmt.Sprintf(
		"🔴 <b>Deploy FAILED</b>\nProject: <b>%s</b>\nServer: %s\nError: <code>%s</code>",
		project.Name, server.Name, errText,
	)
}

func StatusChange(project *entity.Project, oldStatus, newStatus entity.ProjectStatus) string {
	icon, ok := statusIcons[newStatus]
	if !ok {
		icon = "ℹ️"
	}
	return fmt.Sprintf(
		"%s <b>Status changed</b>\nProject: <b>%s</b>\n%s → %s",
		icon, project.Name, oldStatus, newStatus,
	)
}

func BillingWarning(project *entity.Project, daysLeft int) string {
	paidUntil := "—"
	if project.PaidUntil != nil {
		paidUntil = project.PaidUntil.Format("2006-01-02")
	}
	return fmt.Sprintf(
		"⚠️ <b>Payment expiring</b>\nProject: <b>%s</b>\nDays left: <b>%d</b>\nPaid until: %s",
		project.Name, daysLeft, paidUntil,
	)
}
