// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package oracle

import (
	"fmt"

	"github.com/orbs-network/scribe/log"
	"github.com/orbs-network/tx-status-oracle/services/oracle/adapter"
	"github.com/pkg/errors"
)

type Kind uint8

const (
	InternalError Kind = iota
	ValidationError
	AuthorizationError
	QuotaError
	ResourceError
	StateError
)

func (k Kind) String() string {
	switch k {
	case InternalError:
		return "InternalError"
	case ValidationError:
		return "ValidationError"
	case AuthorizationError:
		return "AuthorizationError"
	case QuotaError:
		return "QuotaError"
	case ResourceError:
		return "ResourceError"
	case StateError:
		return "StateError"
	}
	return "UnknownError"
}

type RejectionReason uint8

const (
	InvalidTxId RejectionReason = iota
	TxIdTooLong
	InvalidTxStatus
	MissingTicketType
	MissingHash
	InvalidHashLength
	InvalidContributorId
	NotWatched

	UnknownContributor
	ContributorBanned
	RegistrationFeeUnpaid
	ContributorBanished

	EnoughReportsSubmitted
	SubmissionLimitReached
	RateLimited

	AlreadyRegistered
)

var reasonNames = map[RejectionReason]string{
	InvalidTxId:            "InvalidTxId",
	TxIdTooLong:            "TxIdTooLong",
	InvalidTxStatus:        "InvalidTxStatus",
	MissingTicketType:      "MissingTicketType",
	MissingHash:            "MissingHash",
	InvalidHashLength:      "InvalidHashLength",
	InvalidContributorId:   "InvalidContributorId",
	NotWatched:             "NotWatched",
	UnknownContributor:     "UnknownContributor",
	ContributorBanned:      "ContributorBanned",
	RegistrationFeeUnpaid:  "RegistrationFeeUnpaid",
	ContributorBanished:    "ContributorBanished",
	EnoughReportsSubmitted: "EnoughReportsSubmitted",
	SubmissionLimitReached: "SubmissionLimitReached",
	RateLimited:            "RateLimited",
	AlreadyRegistered:      "AlreadyRegistered",
}

func (r RejectionReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RejectionReason(%d)", uint8(r))
}

func (r RejectionReason) Kind() Kind {
	switch {
	case r <= NotWatched:
		return ValidationError
	case r <= ContributorBanished:
		return AuthorizationError
	case r <= RateLimited:
		return QuotaError
	default:
		return StateError
	}
}

// ErrReportRejected is returned for requests refused before any state changed.
type ErrReportRejected struct {
	Reason RejectionReason
	Fields []*log.Field
}

func reject(reason RejectionReason, fields ...*log.Field) *ErrReportRejected {
	return &ErrReportRejected{Reason: reason, Fields: fields}
}

func (e *ErrReportRejected) Error() string {
	s := fmt.Sprintf("%s: %s", e.Reason.Kind(), e.Reason)
	for _, f := range e.Fields {
		s += fmt.Sprintf(" %s=%v", f.Key, f.Value())
	}
	return s
}

func (e *ErrReportRejected) Kind() Kind {
	return e.Reason.Kind()
}

// KindOf classifies any error returned by the service. Errors not produced by a rejection
// are internal unless they wrap adapter.ErrCapacityExceeded.
func KindOf(err error) Kind {
	cause := errors.Cause(err)
	if rejected, ok := cause.(*ErrReportRejected); ok {
		return rejected.Kind()
	}
	if cause == adapter.ErrCapacityExceeded {
		return ResourceError
	}
	return InternalError
}

// ReasonOf returns the rejection reason of err, if it is a rejection.
func ReasonOf(err error) (RejectionReason, bool) {
	if rejected, ok := errors.Cause(err).(*ErrReportRejected); ok {
		return rejected.Reason, true
	}
	return 0, false
}
