package store_test

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/fnlux/pkg/async"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

func Example() {
	type counter struct{ Total int }
	add := store.Pure(func(c counter, n int) counter {
		c.Total += n
		return c
	})

	s := store.New(counter{}, []store.Reducer[counter, int]{add}, func(c counter) {
		fmt.Println("total:", c.Total)
	})

	_ = s.Apply(2)
	_, _ = s.ApplyAsync(context.Background(), async.Resolved(3), async.Resolved(4)).Await()
	s.Undo()

	// Output:
	// total: 2
	// total: 9
	// total: 2
}
