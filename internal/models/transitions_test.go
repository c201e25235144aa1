package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationTransitions(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatusType
		ok       bool
	}{
		{ApplicationStatusDraft, ApplicationStatusSubmitted, true},
		{ApplicationStatusSubmitted, ApplicationStatusUnderReview, true},
		{ApplicationStatusSubmitted, ApplicationStatusApproved, true},
		{ApplicationStatusSubmitted, ApplicationStatusRejected, true},
		{ApplicationStatusUnderReview, ApplicationStatusApproved, true},
		{ApplicationStatusUnderReview, ApplicationStatusRejected, true},
		{ApplicationStatusDraft, ApplicationStatusApproved, true},

		{ApplicationStatusApproved, ApplicationStatusRejected, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
		{ApplicationStatusApproved, ApplicationStatusSubmitted, false},
		{ApplicationStatusSubmitted, ApplicationStatusDraft, false},
		{ApplicationStatusUnderReview, ApplicationStatusSubmitted, false},
	}
	for _, c := range cases {
		require.Equal(t, c.ok, CanTransitionApplication(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestLeaseTransitions(t *testing.T) {
	cases := []struct {
		from, to LeaseStatusType
		ok       bool
	}{
		{LeaseStatusDraft, LeaseStatusPendingSignature, true},
		{LeaseStatusPendingSignature, LeaseStatusSigned, true},
		{LeaseStatusSigned, LeaseStatusActive, true},
		{LeaseStatusActive, LeaseStatusCompleted, true},
		{LeaseStatusDraft, LeaseStatusTerminated, true},
		{LeaseStatusPendingSignature, LeaseStatusTerminated, true},
		{LeaseStatusSigned, LeaseStatusTerminated, true},
		{LeaseStatusActive, LeaseStatusTerminated, true},

		{LeaseStatusDraft, LeaseStatusSigned, false},
		{LeaseStatusPendingSignature, LeaseStatusActive, false},
		{LeaseStatusSigned, LeaseStatusCompleted, false},
		{LeaseStatusCompleted, LeaseStatusTerminated, false},
		{LeaseStatusTerminated, LeaseStatusActive, false},
		{LeaseStatusCompleted, LeaseStatusActive, false},
		{LeaseStatusActive, LeaseStatusSigned, false},
	}
	for _, c := range cases {
		require.Equal(t, c.ok, CanTransitionLease(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestEncumberingStatuses(t *testing.T) {
	require.True(t, LeaseStatusPendingSignature.Encumbering())
	require.True(t, LeaseStatusSigned.Encumbering())
	require.True(t, LeaseStatusActive.Encumbering())
	require.False(t, LeaseStatusDraft.Encumbering())
	require.False(t, LeaseStatusCompleted.Encumbering())
	require.False(t, LeaseStatusTerminated.Encumbering())
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("BY_ROOM")
	require.NoError(t, err)
	require.Equal(t, GranularityByRoom, g)

	_, err = ParseGranularity("BY_FLOOR")
	require.Error(t, err)
}
