package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/internal/repository/memory"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	svc := service.NewContactService(memory.NewContactRepository(), nopLogger)
	ctx := context.Background()

	_, err := svc.Submit(ctx, model.ContactMessage{Name: "A", Email: "nope", Message: "short"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ElementsMatch(t, []string{"name", "email", "message"}, fieldNames(err))

	out, err := svc.Submit(ctx, model.ContactMessage{
		Name:    "  Jane Voter ",
		Email:   " Jane@Example.ORG ",
		Message: "Please visit our neighbourhood clinic.",
		Read:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Voter", out.Name)
	assert.Equal(t, "jane@example.org", out.Email)
	assert.False(t, out.Read, "new messages always start unread")
	_, perr := uuid.Parse(out.ID)
	assert.NoError(t, perr)
}

func TestContactService_Moderation(t *testing.T) {
	svc := service.NewContactService(memory.NewContactRepository(), nopLogger)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		m, err := svc.Submit(ctx, model.ContactMessage{Name: "Voter", Email: "v@example.org", Message: "Thanks for the town hall."})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	m, err := svc.MarkRead(ctx, ids[0], true)
	require.NoError(t, err)
	assert.True(t, m.Read)

	unread, err := svc.List(ctx, repository.Page{}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Total)

	_, err = svc.MarkRead(ctx, "42", true)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, ids[1]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[1]), repository.ErrNotFound)

	all, err := svc.List(ctx, repository.Page{Limit: -5, Offset: -1}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Len(t, all.Items, 2)
}
