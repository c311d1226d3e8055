package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/repository"
	"github.com/alexanderramin/kurikula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) WorkspaceService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewWorkspaceService(repository.NewSQLiteRunRepo(database), testutil.NewTestUoW(database))
}

func TestWorkspace_CreateAndResolveLatest(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	run, err := ws.Create(ctx, "  Peserta didik mengenal pecahan.  ", testutil.NewTestContext())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "Peserta didik mengenal pecahan.", run.Narrative)
	assert.Equal(t, domain.StageObjectives, run.ActiveStage)

	latest, err := ws.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)

	byPrefix, err := ws.Resolve(ctx, run.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, run.ID, byPrefix.ID)
}

func TestWorkspace_CreateRejectsInvalidContext(t *testing.T) {
	ws := newTestWorkspace(t)
	cc := testutil.NewTestContext()
	cc.EffectiveWeeks = 0

	_, err := ws.Create(context.Background(), "x", cc)
	assert.ErrorContains(t, err, "effective weeks")
}

func TestWorkspace_ResolveEmpty(t *testing.T) {
	ws := newTestWorkspace(t)
	_, err := ws.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorContains(t, err, "kurikula init")
}

func TestWorkspace_Delete(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	run, err := ws.Create(ctx, "x", testutil.NewTestContext())
	require.NoError(t, err)

	deleted, err := ws.Delete(ctx, run.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, run.ID, deleted.ID)

	runs, err := ws.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = ws.Delete(ctx, "")
	assert.Error(t, err)
}
