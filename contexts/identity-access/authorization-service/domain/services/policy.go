package services

import (
	"fmt"

	"libris/contexts/identity-access/authorization-service/domain/entities"
)

// GrantsOperation reports whether the snapshot's effective permissions
// contain the operation's required permission. A user in no groups, or
// only in groups with empty permission sets, is never granted anything.
func GrantsOperation(snapshot entities.MembershipSnapshot, operation entities.Operation) bool {
	required, ok := operation.RequiredPermission()
	if !ok {
		return false
	}
	_, granted := snapshot.EffectivePermissions()[required]
	return granted
}

// ValidateOperationTable checks the static operation table at startup.
// An operation requiring an unknown permission is a configuration error,
// never a runtime deny.
func ValidateOperationTable() error {
	for _, operation := range entities.Operations() {
		required, ok := operation.RequiredPermission()
		if !ok {
			return fmt.Errorf("operation %q has no required permission", operation)
		}
		if !required.Known() {
			return fmt.Errorf("operation %q requires unknown permission %q", operation, required)
		}
	}
	return nil
}
