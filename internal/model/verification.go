package model

import (
	"time"
)

type VerificationMethod string

const (
	MethodLandmarkSelfie  VerificationMethod = "LANDMARK_SELFIE"
	MethodIDDocument      VerificationMethod = "ID_DOCUMENT"
	MethodEnrollmentProof VerificationMethod = "ENROLLMENT_PROOF"
	MethodUtilityBill     VerificationMethod = "UTILITY_BILL"
)

func (m VerificationMethod) Valid() bool {
	switch m {
	case MethodLandmarkSelfie, MethodIDDocument, MethodEnrollmentProof, MethodUtilityBill:
		return true
	}
	return false
}

// FileRole returns the role verification files carry for this method.
// A landmark selfie is a photo; every other method is documentary proof.
func (m VerificationMethod) FileRole() VerificationFileRole {
	if m == MethodLandmarkSelfie {
		return FileRoleImage
	}
	return FileRoleDocument
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

type VerificationRejectionCode string

const (
	VerificationRejectBlurryImage      VerificationRejectionCode = "BLURRY_IMAGE"
	VerificationRejectDocumentMismatch VerificationRejectionCode = "DOCUMENT_MISMATCH"
	VerificationRejectExpiredDocument  VerificationRejectionCode = "EXPIRED_DOCUMENT"
	VerificationRejectUnsupported      VerificationRejectionCode = "UNSUPPORTED_METHOD"
	VerificationRejectSuspectedFraud   VerificationRejectionCode = "SUSPECTED_FRAUD"
	VerificationRejectOther            VerificationRejectionCode = "OTHER"
)

func (c VerificationRejectionCode) Valid() bool {
	switch c {
	case VerificationRejectBlurryImage, VerificationRejectDocumentMismatch,
		VerificationRejectExpiredDocument, VerificationRejectUnsupported,
		VerificationRejectSuspectedFraud, VerificationRejectOther:
		return true
	}
	return false
}

type VerificationFileRole string

const (
	FileRoleImage    VerificationFileRole = "IMAGE"
	FileRoleDocument VerificationFileRole = "DOCUMENT"
	FileRoleOther    VerificationFileRole = "OTHER"
)

type VerificationRequest struct {
	ID            int64                      `db:"id" json:"id"`
	UserID        string                     `db:"user_id" json:"userId"`
	Method        VerificationMethod         `db:"method" json:"method"`
	Status        VerificationStatus         `db:"status" json:"status"`
	SubmittedAt   time.Time                  `db:"submitted_at" json:"submittedAt"`
	ReviewedAt    *time.Time                 `db:"reviewed_at" json:"reviewedAt"`
	ReviewedBy    *string                    `db:"reviewed_by" json:"reviewedBy"`
	RejectionCode *VerificationRejectionCode `db:"rejection_code" json:"rejectionCode"`
	RejectionNote *string                    `db:"rejection_note" json:"rejectionNote"`

	Files []*VerificationFile `db:"-" json:"files,omitempty"`
}

type VerificationFile struct {
	ID         int64                `db:"id" json:"id"`
	RequestID  int64                `db:"request_id" json:"requestId"`
	StorageKey string               `db:"storage_key" json:"storageKey"`
	Role       VerificationFileRole `db:"role" json:"role"`
	CreatedAt  time.Time            `db:"created_at" json:"createdAt"`
}

// VerificationWithOwner is the moderation read model for the review queue.
type VerificationWithOwner struct {
	VerificationRequest
	OwnerName  string `db:"owner_name" json:"ownerName"`
	OwnerEmail string `db:"owner_email" json:"ownerEmail"`
}

// CurrentRequest picks the request to display from a newest-first history:
// the most recent PENDING one if any exists, otherwise the most recent.
func CurrentRequest(history []*VerificationRequest) *VerificationRequest {
	for _, req := range history {
		if req.Status == VerificationPending {
			return req
		}
	}
	if len(history) > 0 {
		return history[0]
	}
	return nil
}
