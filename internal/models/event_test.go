package models_test

import (
	"testing"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/SscSPs/vaultix_backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRow_SubmissionHasNullBefore(t *testing.T) {
	after := &domain.Application{ID: "app-1", Status: domain.StatusDocumentsSubmitted, Balance: decimal.Zero}
	e := domain.ApplicationEvent{
		EventID:       "ev-1",
		ApplicationID: "app-1",
		Kind:          domain.EventApplicationSubmitted,
		ActorID:       "a@example.com",
		OccurredAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		After:         after,
	}

	row, err := models.FromDomainEvent(e)
	require.NoError(t, err)
	assert.Nil(t, row.BeforeState)
	assert.NotEmpty(t, row.AfterState)

	back, err := row.ToDomain()
	require.NoError(t, err)
	assert.Nil(t, back.Before)
	require.NotNil(t, back.After)
	assert.Equal(t, domain.StatusDocumentsSubmitted, back.After.Status)
	assert.Equal(t, domain.EventApplicationSubmitted, back.Kind)
}
