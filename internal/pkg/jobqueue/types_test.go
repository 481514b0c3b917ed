package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmKinds(t *testing.T) {
	assert.Equal(t, "mandate_create", ConfirmKindMandateCreate)
	assert.Equal(t, "mandate_execute", ConfirmKindMandateExecute)
	assert.Equal(t, "transfer", ConfirmKindTransfer)
}

func TestConfirmTransactionJobPayloadFromMap(t *testing.T) {
	t.Run("PlanID is optional", func(t *testing.T) {
		payload, err := ConfirmTransactionJobPayloadFromMap(map[string]interface{}{
			"signature": "abc123",
			"kind":      ConfirmKindTransfer,
			"wallet":    "DemoWa11etAddre55",
		})
		require.NoError(t, err)
		assert.Equal(t, "abc123", payload.Signature)
		assert.Equal(t, ConfirmKindTransfer, payload.Kind)
		assert.Empty(t, payload.PlanID)
	})

	t.Run("Unknown keys are ignored", func(t *testing.T) {
		payload, err := ConfirmTransactionJobPayloadFromMap(map[string]interface{}{
			"signature": "abc123",
			"kind":      ConfirmKindMandateExecute,
			"wallet":    "DemoWa11etAddre55",
			"plan_id":   "max",
			"leftover":  42,
		})
		require.NoError(t, err)
		assert.Equal(t, "max", payload.PlanID)
	})

	t.Run("Empty map yields empty payload", func(t *testing.T) {
		payload, err := ConfirmTransactionJobPayloadFromMap(map[string]interface{}{})
		require.NoError(t, err)
		assert.Empty(t, payload.Signature)
		assert.Empty(t, payload.Kind)
	})
}

func TestConfirmTransactionJobPayload_RoundTrip(t *testing.T) {
	original := ConfirmTransactionJobPayload{
		Signature: "4fYp6Qp7signature",
		Kind:      ConfirmKindMandateExecute,
		Wallet:    "DemoWa11etAddre55",
		PlanID:    "basic",
	}

	restored, err := ConfirmTransactionJobPayloadFromMap(original.ToMap())
	require.NoError(t, err)
	assert.Equal(t, &original, restored)
}
