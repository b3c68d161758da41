package memo

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/jmhodges/clock"
)

// testStore runs the Store contract against a fresh store.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	t.Run("PutGet", func(t *testing.T) {
		s := newStore(t)
		m := New(time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), "dentist", clk)
		if err := s.Put(ctx, m); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != m.ID || got.Text != m.Text || !got.Date.Equal(m.Date) || !got.CreatedAt.Equal(m.CreatedAt) {
			t.Errorf("Get = %+v, want %+v", got, m)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "nope"); !stderrors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		s := newStore(t)
		m := New(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "first", clk)
		s.Put(ctx, m)
		m.Text = "second"
		if err := s.Put(ctx, m); err != nil {
			t.Fatal(err)
		}
		all, _ := s.List(ctx)
		if len(all) != 1 || all[0].Text != "second" {
			t.Errorf("List = %+v", all)
		}
	})

	t.Run("ListOrdered", func(t *testing.T) {
		s := newStore(t)
		dates := []time.Time{
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 25, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
		}
		for _, d := range dates {
			if err := s.Put(ctx, New(d, d.Format(time.DateOnly), clk)); err != nil {
				t.Fatal(err)
			}
		}

		all, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 3 {
			t.Fatalf("List returned %d memos", len(all))
		}
		want := []string{"2023-12-25", "2024-01-15", "2024-03-01"}
		for i, m := range all {
			if m.Text != want[i] {
				t.Errorf("List[%d] = %q, want %q", i, m.Text, want[i])
			}
			if m.Date.Location() != time.UTC {
				t.Errorf("List[%d] date not UTC: %v", i, m.Date)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		m := New(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "gone", clk)
		s.Put(ctx, m)
		if err := s.Delete(ctx, m.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, m.ID); !stderrors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete = %v", err)
		}
		if err := s.Delete(ctx, m.ID); err != nil {
			t.Errorf("deleting a missing id = %v", err)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		s := newStore(t)
		all, err := s.List(ctx)
		if err != nil || len(all) != 0 {
			t.Errorf("List = %v, %v", all, err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestNewMemo(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 1, 12, 0, 0, 500, time.UTC))
	est := ZoneForOffset(-300)

	m := New(time.Date(2024, 1, 15, 9, 30, 15, 999, est), "x", clk)
	if m.ID == "" || len(m.ID) != 36 {
		t.Errorf("ID = %q", m.ID)
	}
	if want := time.Date(2024, 1, 15, 14, 30, 15, 0, time.UTC); !m.Date.Equal(want) || m.Date.Location() != time.UTC {
		t.Errorf("Date = %v, want %v", m.Date, want)
	}
	if m.CreatedAt.Nanosecond() != 0 {
		t.Errorf("CreatedAt not truncated: %v", m.CreatedAt)
	}
	if New(m.Date, "y", clk).ID == m.ID {
		t.Error("ids repeat")
	}
}
