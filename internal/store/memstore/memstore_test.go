package memstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-service/internal/model"
)

func TestNew_DefaultSeed(t *testing.T) {
	s := New(WithSeed(DefaultSeed()))

	items := s.List()
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, int64(i+1), it.ID)
		assert.False(t, it.Completed)
	}
	assert.Equal(t, "Learn Spring Boot", items[0].Title)
	assert.Equal(t, "Deploy application to Amazon ECS", items[2].Description)

	created := s.Create(model.TodoItem{Title: "X"})
	assert.Equal(t, int64(4), created.ID)
}

func TestNew_Empty(t *testing.T) {
	s := New()
	assert.Empty(t, s.List())
	assert.NotNil(t, s.List())
	assert.Equal(t, 0, s.Len())
}

func TestCreate_IgnoresCallerID(t *testing.T) {
	s := New()

	got := s.Create(model.TodoItem{ID: 99, Title: "a"})
	assert.Equal(t, int64(1), got.ID)

	stored, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	_, err = s.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_IDsStrictlyIncreasing(t *testing.T) {
	s := New()

	var last int64
	for i := 0; i < 50; i++ {
		it := s.Create(model.TodoItem{Title: "t"})
		assert.Greater(t, it.ID, last)
		last = it.ID
	}
}

func TestCreate_IDsNotReusedAfterDelete(t *testing.T) {
	s := New()
	a := s.Create(model.TodoItem{Title: "a"})
	b := s.Create(model.TodoItem{Title: "b"})

	require.True(t, s.Delete(b.ID))
	c := s.Create(model.TodoItem{Title: "c"})

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestGet_AfterCreate(t *testing.T) {
	s := New()
	in := model.TodoItem{Title: "read", Description: "a book", Completed: true}

	created := s.Create(in)
	got, err := s.Get(created.ID)
	require.NoError(t, err)

	in.ID = created.ID
	assert.Equal(t, in, got)
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New(WithSeed(DefaultSeed()))

	items := s.List()
	items[0].Title = "mutated"

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Learn Spring Boot", got.Title)
}

func TestList_InsertionOrder(t *testing.T) {
	s := New()
	for _, title := range []string{"c", "a", "b"} {
		s.Create(model.TodoItem{Title: title})
	}
	require.True(t, s.Delete(2))
	s.Create(model.TodoItem{Title: "d"})

	var titles []string
	for _, it := range s.List() {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"c", "b", "d"}, titles)
}

func TestUpdate(t *testing.T) {
	s := New(WithSeed(DefaultSeed()))

	got, err := s.Update(2, model.TodoItem{ID: 42, Title: "Y", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, model.TodoItem{ID: 2, Title: "Y", Completed: true}, got)

	stored, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	// Other items and ordering are untouched.
	items := s.List()
	require.Len(t, items, 3)
	assert.Equal(t, "Learn Spring Boot", items[0].Title)
	assert.Equal(t, int64(2), items[1].ID)
	assert.Equal(t, "Deploy to ECS", items[2].Title)

	_, err = s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_MissingLeavesStoreUnchanged(t *testing.T) {
	s := New(WithSeed(DefaultSeed()))
	before := s.List()

	_, err := s.Update(7, model.TodoItem{Title: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, s.List())

	// The counter did not move either.
	assert.Equal(t, int64(4), s.Create(model.TodoItem{Title: "next"}).ID)
}

func TestDelete(t *testing.T) {
	s := New(WithSeed(DefaultSeed()))

	assert.True(t, s.Delete(1))
	assert.False(t, s.Delete(1))
	assert.False(t, s.Delete(100))

	_, err := s.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, s.Len())
}

func TestLen_CreatesMinusDeletes(t *testing.T) {
	s := New()
	creates, deletes := 0, 0

	for i := 0; i < 20; i++ {
		it := s.Create(model.TodoItem{Title: "t"})
		creates++
		if i%3 == 0 {
			require.True(t, s.Delete(it.ID))
			deletes++
			// A second delete of the same id removes nothing.
			require.False(t, s.Delete(it.ID))
		}
		assert.Equal(t, creates-deletes, len(s.List()))
	}
}

func TestConcurrentCreates_UniqueIDs(t *testing.T) {
	s := New()
	const workers, perWorker = 16, 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- s.Create(model.TodoItem{Title: "c"}).ID
				_ = s.List()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers*perWorker)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker, s.Len())
}
