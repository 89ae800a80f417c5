package lockmgr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
	"github.com/Humans-Not-Required/agent-docs/internal/store"
)

type fakeLocker struct {
	state *store.LockState
	now   time.Time
}

func (f *fakeLocker) UpdateLock(ctx context.Context, documentID string, mutate func(current *store.LockState, now time.Time) (*store.LockState, error)) (*store.Document, error) {
	next, err := mutate(f.state, f.now)
	if err != nil {
		return nil, err
	}
	f.state = next
	doc := &store.Document{ID: documentID}
	if next != nil && next.ExpiresAt.After(f.now) {
		doc.LockedBy = &next.LockedBy
	}
	return doc, nil
}

func TestAcquire_GrantsWhenUnset(t *testing.T) {
	locker := &fakeLocker{now: time.Now()}
	mgr := New(locker)
	doc, err := mgr.Acquire(context.Background(), "doc-1", "alice", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, doc.LockedBy)
	require.Equal(t, "alice", *doc.LockedBy)
}

func TestAcquire_ConflictsWithLiveOtherEditor(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Minute)}}
	mgr := New(locker)
	_, err := mgr.Acquire(context.Background(), "doc-1", "bob", time.Minute)
	require.Error(t, err)
	var conflict *apperr.LockConflict
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, "alice", conflict.Holder)
}

func TestAcquire_ReentrantForSameEditor(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Minute)}}
	mgr := New(locker)
	doc, err := mgr.Acquire(context.Background(), "doc-1", "alice", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "alice", *doc.LockedBy)
}

func TestAcquire_OverridesExpiredLock(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)}}
	mgr := New(locker)
	doc, err := mgr.Acquire(context.Background(), "doc-1", "bob", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "bob", *doc.LockedBy)
}

func TestRenew_FailsWithNoLease(t *testing.T) {
	locker := &fakeLocker{now: time.Now()}
	mgr := New(locker)
	_, err := mgr.Renew(context.Background(), "doc-1", "alice", time.Minute)
	require.Error(t, err)
	var noLease *apperr.NoLease
	require.True(t, errors.As(err, &noLease))
}

func TestRenew_ExtendsOwnLease(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Second)}}
	mgr := New(locker)
	_, err := mgr.Renew(context.Background(), "doc-1", "alice", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, locker.state.ExpiresAt.After(now.Add(time.Minute)))
}

func TestRenew_ConflictsWithOtherEditor(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Minute)}}
	mgr := New(locker)
	_, err := mgr.Renew(context.Background(), "doc-1", "bob", time.Minute)
	var conflict *apperr.LockConflict
	require.True(t, errors.As(err, &conflict))
}

func TestRelease_IdempotentWhenUnset(t *testing.T) {
	locker := &fakeLocker{now: time.Now()}
	mgr := New(locker)
	_, err := mgr.Release(context.Background(), "doc-1", "alice")
	require.NoError(t, err)
}

func TestRelease_ClearsOwnLease(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Minute)}}
	mgr := New(locker)
	_, err := mgr.Release(context.Background(), "doc-1", "alice")
	require.NoError(t, err)
	require.Nil(t, locker.state)
}

func TestRelease_ConflictsWithLiveOtherEditor(t *testing.T) {
	now := time.Now()
	locker := &fakeLocker{now: now, state: &store.LockState{LockedBy: "alice", LockedAt: now, ExpiresAt: now.Add(time.Minute)}}
	mgr := New(locker)
	_, err := mgr.Release(context.Background(), "doc-1", "bob")
	var conflict *apperr.LockConflict
	require.True(t, errors.As(err, &conflict))
}
