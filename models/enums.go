package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// TransactionType is the IATI transaction-type code recorded on a transaction.
type TransactionType int

const (
	TransactionTypeIncomingFunds      TransactionType = 1
	TransactionTypeOutgoingCommitment TransactionType = 2
	TransactionTypeDisbursement       TransactionType = 3
	TransactionTypeExpenditure        TransactionType = 4
	TransactionTypeIncomingCommitment TransactionType = 11
	TransactionTypeOutgoingPledge     TransactionType = 12
	TransactionTypeIncomingPledge     TransactionType = 13
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeIncomingFunds:
		return "IncomingFunds"
	case TransactionTypeOutgoingCommitment:
		return "OutgoingCommitment"
	case TransactionTypeDisbursement:
		return "Disbursement"
	case TransactionTypeExpenditure:
		return "Expenditure"
	case TransactionTypeIncomingCommitment:
		return "IncomingCommitment"
	case TransactionTypeOutgoingPledge:
		return "OutgoingPledge"
	case TransactionTypeIncomingPledge:
		return "IncomingPledge"
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

func (t *TransactionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*t = TransactionType(v)
	case []byte:
		var n int
		if _, err := fmt.Sscanf(string(v), "%d", &n); err != nil {
			return err
		}
		*t = TransactionType(n)
	default:
		return errors.New("transaction type must be an integer code")
	}
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return int64(t), nil
}

// RelationshipType is the direction of a declared activity relationship edge.
type RelationshipType int

const (
	// RelationshipTypeChild: the edge's related activity is a child of the edge's activity.
	RelationshipTypeChild RelationshipType = 1
	// RelationshipTypeParent: the edge's related activity is a parent of the edge's activity.
	RelationshipTypeParent RelationshipType = 2
)

func (t *RelationshipType) Scan(value interface{}) error {
	v, ok := value.(int64)
	if !ok {
		return errors.New("relationship type must be an integer code")
	}
	*t = RelationshipType(v)
	return nil
}

func (t RelationshipType) Value() (driver.Value, error) {
	return int64(t), nil
}

// OrganizationRole is the IATI participating-organisation role code.
type OrganizationRole int

const (
	OrganizationRoleFunding      OrganizationRole = 1
	OrganizationRoleAccountable  OrganizationRole = 2
	OrganizationRoleExtending    OrganizationRole = 3
	OrganizationRoleImplementing OrganizationRole = 4
)

func (r *OrganizationRole) Scan(value interface{}) error {
	v, ok := value.(int64)
	if !ok {
		return errors.New("organization role must be an integer code")
	}
	*r = OrganizationRole(v)
	return nil
}

func (r OrganizationRole) Value() (driver.Value, error) {
	return int64(r), nil
}

type ActivityStatus string

const (
	ActivityStatusPipeline       ActivityStatus = "Pipeline"
	ActivityStatusImplementation ActivityStatus = "Implementation"
	ActivityStatusCompletion     ActivityStatus = "Completion"
	ActivityStatusPostCompletion ActivityStatus = "PostCompletion"
	ActivityStatusCancelled      ActivityStatus = "Cancelled"
	ActivityStatusSuspended      ActivityStatus = "Suspended"
)
