package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeNotifier_Disabled(t *testing.T) {
	n := NewChangeNotifier(nil, nil)
	assert.False(t, n.Enabled())

	assert.NoError(t, n.Publish(context.Background(), ownerID, ChangeEvent{Type: ChangeCreated}))

	ch, err := n.Subscribe(context.Background(), ownerID)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, ch)

	var nilNotifier *ChangeNotifier
	assert.False(t, nilNotifier.Enabled())
}

func TestDecodeChange(t *testing.T) {
	ev, err := decodeChange(`{"type":"updated","id":"abc","at":"2026-03-10T12:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, ChangeEvent{Type: ChangeUpdated, ID: "abc", At: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}, ev)

	_, err = decodeChange("not json")
	assert.Error(t, err)
}
