package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bachecalabs/bacheca/internal/model"
)

func seedVerification(t *testing.T, repo VerificationRepository, userID string, submittedAt time.Time) *model.VerificationRequest {
	t.Helper()

	req := &model.VerificationRequest{
		UserID:      userID,
		Method:      model.MethodIDDocument,
		Status:      model.VerificationPending,
		SubmittedAt: submittedAt,
	}
	files := []*model.VerificationFile{
		{StorageKey: "uploads/" + userID + "/doc.pdf", Role: model.FileRoleDocument},
	}
	require.NoError(t, repo.Create(req, files))
	return req
}

func TestVerificationRepositoryCreateWithFiles(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "user1@example.com")
	repo := NewVerificationRepository(conn)

	req := seedVerification(t, repo, "user-1", time.Now())
	require.NotZero(t, req.ID)

	got, err := repo.ByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, got.Status)
	require.Len(t, got.Files, 1)
	assert.Equal(t, model.FileRoleDocument, got.Files[0].Role)
	assert.Equal(t, req.ID, got.Files[0].RequestID)
}

func TestVerificationRepositoryByIDNotFound(t *testing.T) {
	conn := testDB(t)
	repo := NewVerificationRepository(conn)

	_, err := repo.ByID(404)
	assert.ErrorIs(t, err, ErrVerificationNotFound)

	_, err = repo.ByIDWithOwner(404)
	assert.ErrorIs(t, err, ErrVerificationNotFound)
}

func TestVerificationRepositoryHistoryNewestFirst(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "user1@example.com")
	seedUser(t, conn, "user-2", "user2@example.com")
	repo := NewVerificationRepository(conn)

	older := seedVerification(t, repo, "user-1", time.Now().AddDate(0, 0, -2))
	newer := seedVerification(t, repo, "user-1", time.Now())
	seedVerification(t, repo, "user-2", time.Now())

	history, err := repo.ListByUser("user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)
}

func TestVerificationRepositoryApproveFlipsUserFlag(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "user1@example.com")
	repo := NewVerificationRepository(conn)

	req := seedVerification(t, repo, "user-1", time.Now())

	err := repo.Approve(req.ID, "mod-1", time.Now())
	require.NoError(t, err)

	got, err := repo.ByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, "mod-1", *got.ReviewedBy)
	assert.NotNil(t, got.ReviewedAt)

	var verified bool
	require.NoError(t, conn.QueryRow(`SELECT verified FROM users WHERE id = $1`, "user-1").Scan(&verified))
	assert.True(t, verified)
}

func TestVerificationRepositoryApproveNotFound(t *testing.T) {
	conn := testDB(t)
	repo := NewVerificationRepository(conn)

	err := repo.Approve(404, "mod-1", time.Now())
	assert.ErrorIs(t, err, ErrVerificationNotFound)
}

func TestVerificationRepositoryRejectStoresDecision(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "user1@example.com")
	repo := NewVerificationRepository(conn)

	req := seedVerification(t, repo, "user-1", time.Now())

	note := "document expired in 2024"
	err := repo.Reject(req.ID, "mod-1", model.VerificationRejectExpiredDocument, &note, time.Now())
	require.NoError(t, err)

	got, err := repo.ByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationRejected, got.Status)
	require.NotNil(t, got.RejectionCode)
	assert.Equal(t, model.VerificationRejectExpiredDocument, *got.RejectionCode)
	require.NotNil(t, got.RejectionNote)
	assert.Equal(t, note, *got.RejectionNote)

	// Rejection never touches the user's verified flag
	var verified bool
	require.NoError(t, conn.QueryRow(`SELECT verified FROM users WHERE id = $1`, "user-1").Scan(&verified))
	assert.False(t, verified)
}

func TestVerificationRepositoryListFilters(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "giulia.bianchi@example.com")
	seedUser(t, conn, "user-2", "user2@example.com")
	repo := NewVerificationRepository(conn)

	first := seedVerification(t, repo, "user-1", time.Now())
	second := seedVerification(t, repo, "user-2", time.Now())
	require.NoError(t, repo.Reject(second.ID, "mod-1", model.VerificationRejectOther, nil, time.Now()))

	pending, total, err := repo.List(VerificationFilter{Status: model.VerificationPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	byOwner, total, err := repo.List(VerificationFilter{Search: "giulia"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "giulia.bianchi@example.com", byOwner[0].OwnerEmail)
}

func TestVerificationRepositoryStats(t *testing.T) {
	conn := testDB(t)
	seedUser(t, conn, "user-1", "user1@example.com")
	seedUser(t, conn, "user-2", "user2@example.com")
	repo := NewVerificationRepository(conn)

	seedVerification(t, repo, "user-1", time.Now())
	settled := seedVerification(t, repo, "user-2", time.Now().AddDate(0, 0, -10))
	require.NoError(t, repo.Approve(settled.ID, "mod-1", time.Now()))

	stats, err := repo.Stats(time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[model.VerificationPending])
	assert.Equal(t, 1, stats.ByStatus[model.VerificationApproved])
	assert.Equal(t, 2, stats.ByMethod[model.MethodIDDocument])
	assert.Equal(t, 1, stats.SubmittedLast7Days)
	assert.Equal(t, 2, stats.SubmittedLast30Days)
}
