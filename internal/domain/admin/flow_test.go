package admin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	saved map[string][]byte
	err   error
}

func (s *stubStore) AddSubject(ctx context.Context, name string, content []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved[name] = content
	return 3, nil
}

const adminID int64 = 777

func TestFlow_HappyPath(t *testing.T) {
	store := &stubStore{saved: map[string][]byte{}}
	flow := NewFlow(store)

	assert.Equal(t, StateIdle, flow.State(adminID))
	flow.Begin(adminID)
	assert.Equal(t, StateAwaitingName, flow.State(adminID))

	name, err := flow.ReceiveName(adminID, "  Tarix ")
	require.NoError(t, err)
	assert.Equal(t, "Tarix", name)
	assert.Equal(t, StateAwaitingFile, flow.State(adminID))

	_, _, err = flow.ReceiveFile(context.Background(), adminID, "tarix.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrNotTxt)
	assert.Equal(t, StateAwaitingFile, flow.State(adminID))

	name, count, err := flow.ReceiveFile(context.Background(), adminID, "tarix.TXT", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, "Tarix", name)
	assert.Equal(t, 3, count)
	assert.Equal(t, []byte("content"), store.saved["Tarix"])
	assert.Equal(t, StateIdle, flow.State(adminID))
}

func TestFlow_RejectsBadNames(t *testing.T) {
	flow := NewFlow(&stubStore{saved: map[string][]byte{}})
	flow.Begin(adminID)

	for _, name := range []string{"", "/start", "a/b", strings.Repeat("x", MaxNameLength+1)} {
		_, err := flow.ReceiveName(adminID, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	assert.Equal(t, StateAwaitingName, flow.State(adminID))
}

func TestFlow_OutOfOrderAndCancel(t *testing.T) {
	flow := NewFlow(&stubStore{saved: map[string][]byte{}})

	_, err := flow.ReceiveName(adminID, "Fizika")
	assert.ErrorIs(t, err, ErrNotInFlow)
	_, _, err = flow.ReceiveFile(context.Background(), adminID, "f.txt", nil)
	assert.ErrorIs(t, err, ErrNotInFlow)

	flow.Begin(adminID)
	_, _, err = flow.ReceiveFile(context.Background(), adminID, "f.txt", nil)
	assert.ErrorIs(t, err, ErrNotInFlow)

	assert.True(t, flow.Cancel(adminID))
	assert.False(t, flow.Cancel(adminID))
	assert.Equal(t, StateIdle, flow.State(adminID))
}

func TestFlow_StoreErrorKeepsFileStep(t *testing.T) {
	errEmpty := errors.New("subject has no valid questions")
	flow := NewFlow(&stubStore{err: errEmpty})
	flow.Begin(adminID)
	_, err := flow.ReceiveName(adminID, "Kimyo")
	require.NoError(t, err)

	_, _, err = flow.ReceiveFile(context.Background(), adminID, "k.txt", []byte("bad"))
	assert.ErrorIs(t, err, errEmpty)
	assert.Equal(t, StateAwaitingFile, flow.State(adminID))
}
