package tasks

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
	"github.com/taskward/taskward/internal/infrastructure/persistence/memory"
)

func newService() *Service {
	return NewService(memory.NewTaskRepository())
}

func owner() domain.UserID {
	return domain.NewUserID(uuid.New())
}

func TestCreateValidatesTitle(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	me := owner()

	_, err := svc.Create(ctx, me, CreateInput{Title: "   "})
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)

	_, err = svc.Create(ctx, me, CreateInput{Title: strings.Repeat("x", MaxTitleLength+1)})
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)

	task, err := svc.Create(ctx, me, CreateInput{Title: "  buy milk  ", Notes: "2 liters"})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, me, task.OwnerID)
	assert.False(t, task.Done)
}

func TestForeignTaskIsNotFound(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	alice, bob := owner(), owner()

	task, err := svc.Create(ctx, alice, CreateInput{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	done := true
	_, err = svc.Update(ctx, bob, task.ID, UpdateInput{Done: &done})
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	err = svc.Delete(ctx, bob, task.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	// Still intact for the owner.
	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
	assert.False(t, got.Done)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	me := owner()

	task, err := svc.Create(ctx, me, CreateInput{Title: "write report", Notes: "draft"})
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, me, task.ID, UpdateInput{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "write report", updated.Title)
	assert.Equal(t, "draft", updated.Notes)

	empty := ""
	_, err = svc.Update(ctx, me, task.ID, UpdateInput{Title: &empty})
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)

	title := "final report"
	notes := ""
	updated, err = svc.Update(ctx, me, task.ID, UpdateInput{Title: &title, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "final report", updated.Title)
	assert.Empty(t, updated.Notes)
	assert.True(t, updated.Done)
}

func TestListScopedToOwner(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	alice, bob := owner(), owner()

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, alice, CreateInput{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, CreateInput{Title: "bob's"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, alice, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, task := range mine {
		assert.Equal(t, alice, task.OwnerID)
	}

	theirs, err := svc.List(ctx, bob, 10, 0)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	paged, err := svc.List(ctx, alice, 2, 0)
	require.NoError(t, err)
	assert.Len(t, paged, 2)

	rest, err := svc.List(ctx, alice, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDeleteRemovesTask(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	me := owner()

	task, err := svc.Create(ctx, me, CreateInput{Title: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, me, task.ID))

	_, err = svc.Get(ctx, me, task.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	err = svc.Delete(ctx, me, task.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)
}
