package delivery

import (
	"fmt"

	domDelivery "msme-logistics/internal/domain/delivery"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
)

// allowedTargets is the authorization policy for status updates: each role
// may only set the listed target statuses, and only on deliveries it owns
// through the matching party field. There is deliberately no adjacency
// graph, so an assigned driver may set delivered without passing picked.
var allowedTargets = map[domUser.Role][]domDelivery.Status{
	domUser.RoleDriver: {
		domDelivery.StatusPicked,
		domDelivery.StatusInTransit,
		domDelivery.StatusDelivered,
	},
	domUser.RoleWarehouse: {
		domDelivery.StatusAssigned,
		domDelivery.StatusCancelled,
	},
	domUser.RoleMSME: {
		domDelivery.StatusCancelled,
	},
}

// msmeCancellableStates are the only current states from which an MSME may
// cancel its own delivery.
var msmeCancellableStates = map[domDelivery.Status]bool{
	domDelivery.StatusPending:  true,
	domDelivery.StatusAssigned: true,
}

// AuthorizeStatusUpdate resolves the policy table once for the requested
// transition. A failed row precondition is a rejection, not a no-op.
func AuthorizeStatusUpdate(principal domUser.Principal, d *domDelivery.Delivery, target domDelivery.Status) error {
	targets, ok := allowedTargets[principal.Role]
	if !ok {
		return appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid user role", nil)
	}

	permitted := false
	for _, t := range targets {
		if t == target {
			permitted = true
			break
		}
	}
	if !permitted {
		return appErrors.NewAppError(appErrors.CodeInvalidTransition,
			fmt.Sprintf("Role %s may not set status %s", principal.Role, target), nil)
	}

	switch principal.Role {
	case domUser.RoleDriver:
		if d.DriverID == nil || *d.DriverID != principal.ID {
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to update this status", nil)
		}
	case domUser.RoleWarehouse:
		if d.WarehouseID == nil || *d.WarehouseID != principal.ID {
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to update this status", nil)
		}
	case domUser.RoleMSME:
		if d.MSMEID != principal.ID {
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to update this status", nil)
		}
		if !msmeCancellableStates[d.Status] {
			return appErrors.NewAppError(appErrors.CodeInvalidTransition,
				fmt.Sprintf("Cannot cancel a delivery in status %s", d.Status), nil)
		}
	}

	return nil
}

// IsParty reports whether the principal is one of the delivery's parties,
// which gates read access.
func IsParty(principal domUser.Principal, d *domDelivery.Delivery) bool {
	switch principal.Role {
	case domUser.RoleMSME:
		return d.MSMEID == principal.ID
	case domUser.RoleDriver:
		return d.DriverID != nil && *d.DriverID == principal.ID
	case domUser.RoleWarehouse:
		return d.WarehouseID != nil && *d.WarehouseID == principal.ID
	}
	return false
}
