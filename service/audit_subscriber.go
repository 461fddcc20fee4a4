// api/service/audit_subscriber.go

package service

import (
	"context"
	"fmt"

	"github.com/harvestlink/market/api/audit"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/util"
)

// SubscribeAudit records every admin mutation and every denied request
// published on eventBus.
func SubscribeAudit(eventBus *util.EventBus, auditService audit.Service, resources ...string) {
	for _, resource := range resources {
		eventBus.Subscribe(model.ChangedEvent(resource), auditChange(auditService))
	}
	eventBus.Subscribe(model.EventRoleChanged, auditChange(auditService))
	eventBus.Subscribe(model.EventAccessDenied, auditDenial(auditService))
}

func auditChange(auditService audit.Service) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		change, ok := event.Payload.(model.ChangeEvent)
		if !ok {
			return fmt.Errorf("invalid event payload type: %T", event.Payload)
		}
		return auditService.LogAccess(ctx, audit.AuditLog{
			UserID:        change.ActorID,
			Action:        change.Action,
			ResourceType:  change.Resource,
			ResourceID:    change.ResourceID,
			AccessGranted: true,
			ChangeDetails: audit.ChangeDetails(change.Before, change.After),
		})
	}
}

func auditDenial(auditService audit.Service) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		denial, ok := event.Payload.(model.DenialEvent)
		if !ok {
			return fmt.Errorf("invalid event payload type: %T", event.Payload)
		}
		reason := string(denial.Reason)
		if denial.RequiredRole != "" {
			reason = fmt.Sprintf("%s (requires %s)", reason, denial.RequiredRole)
		}
		return auditService.LogAccess(ctx, audit.AuditLog{
			UserID:        denial.UserID,
			Action:        audit.ActionDenied,
			ResourceType:  denial.Path,
			AccessGranted: false,
			Reason:        reason,
		})
	}
}
