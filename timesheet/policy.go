package timesheet

import (
	"fmt"
	"strings"
)

// ApprovalPredicate decides which statuses count as approved hours in reports.
type ApprovalPredicate string

const (
	// ApprovedStrict counts only accepted entries.
	ApprovedStrict ApprovalPredicate = "accepted"
	// ApprovedNotRejected counts everything except rejected entries.
	ApprovedNotRejected ApprovalPredicate = "not_rejected"
)

func ParseApprovalPredicate(s string) (ApprovalPredicate, error) {
	switch p := ApprovalPredicate(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ApprovedStrict, nil
	case ApprovedStrict, ApprovedNotRejected:
		return p, nil
	default:
		return "", fmt.Errorf("unknown approval predicate %q (use %q or %q)", s, ApprovedStrict, ApprovedNotRejected)
	}
}

// Approved applies the predicate to one status.
func (p ApprovalPredicate) Approved(s Status) bool {
	if p == ApprovedNotRejected {
		return s != StatusRejected
	}
	return s == StatusAccepted
}

// Policy holds the behaviour switches of the approval workflow.
type Policy struct {
	// RejectedEditable lets owners re-save rejected entries directly.
	// When false, rejected entries are locked like submitted ones.
	RejectedEditable bool
	Approved         ApprovalPredicate
}

func DefaultPolicy() Policy {
	return Policy{RejectedEditable: true, Approved: ApprovedStrict}
}

// Editable reports whether the owner may change the day sheet or delete the entry.
func (p Policy) Editable(s Status) bool {
	switch s {
	case StatusSubmitted, StatusAccepted:
		return false
	case StatusRejected:
		return p.RejectedEditable
	default:
		return true
	}
}
