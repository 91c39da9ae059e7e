package implementation

import (
	"context"
	"testing"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotConfigRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBotConfigRepository(newTestDB(t))

	_, ok, err := repo.Get(ctx, "bot_name")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "bot_name", "Bot"))
	require.NoError(t, repo.Set(ctx, "bot_name", "Cibergaucho Bot"))
	require.NoError(t, repo.Set(ctx, "response_mode", "rich"))

	v, ok, err := repo.Get(ctx, "bot_name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cibergaucho Bot", v)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bot_name": "Cibergaucho Bot", "response_mode": "rich"}, all)

	require.NoError(t, repo.Delete(ctx, "response_mode"))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCrudRepositoryIntents(t *testing.T) {
	ctx := context.Background()
	repo := NewIntentRepository(newTestDB(t))

	second := &entity.Intent{Name: "search_product", Phrases: []string{"precio", "tenés"}, Position: 2}
	first := &entity.Intent{Name: "hours", Phrases: []string{"horario"}, Position: 1}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.Id)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hours", all[0].Name)
	assert.Equal(t, []string{"precio", "tenés"}, all[1].Phrases)

	t.Run("update", func(t *testing.T) {
		first.Phrases = append(first.Phrases, "abren")
		require.NoError(t, repo.Update(ctx, first))
		got, err := repo.FindOne(ctx, specification.ByID{ID: first.Id})
		require.NoError(t, err)
		assert.Equal(t, []string{"horario", "abren"}, got.Phrases)
	})

	t.Run("update missing", func(t *testing.T) {
		err := repo.Update(ctx, &entity.Intent{Id: uuid.New(), Name: "x"})
		assert.ErrorIs(t, err, contract.ErrNotFound)
	})

	t.Run("find missing returns nil", func(t *testing.T) {
		got, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.Id))
		assert.ErrorIs(t, repo.Delete(ctx, second.Id), contract.ErrNotFound)
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestBusinessHourRepositoryOrdersByWeekday(t *testing.T) {
	ctx := context.Background()
	repo := NewBusinessHourRepository(newTestDB(t))
	for _, d := range []int{6, 1, 3} {
		require.NoError(t, repo.Create(ctx, &entity.BusinessHour{Weekday: d, Open: "09:00", Close: "19:00"}))
	}
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 3, 6}, []int{all[0].Weekday, all[1].Weekday, all[2].Weekday})
}
