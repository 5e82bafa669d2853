package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/lawharvest/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicate urls", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.001)
		assert.True(t, f.Push("https://kenyalaw.org/kl/index.php?id=1"))
		assert.False(t, f.Push("https://kenyalaw.org/kl/index.php?id=1"))
	})

	t.Run("ignores fragments", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.001)
		assert.True(t, f.Push("https://kenyalaw.org/kl/index.php?id=1#top"))
		assert.False(t, f.Push("https://kenyalaw.org/kl/index.php?id=1"))
		assert.True(t, f.Seen("https://kenyalaw.org/kl/index.php?id=1#bottom"))

		u, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, "https://kenyalaw.org/kl/index.php?id=1", u)
	})

	t.Run("pops in insertion order", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.001)
		for _, u := range []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"} {
			f.Push(u)
		}
		assert.Equal(t, 3, f.Len())

		var got []string
		for {
			u, ok := f.Pop()
			if !ok {
				break
			}
			got = append(got, u)
		}
		assert.Equal(t, []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"}, got)
		assert.Equal(t, 0, f.Len())
	})

	t.Run("popped urls stay seen", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.001)
		assert.False(t, f.Seen("https://a.test/page"))
		f.Push("https://a.test/page")
		f.Pop()
		assert.True(t, f.Seen("https://a.test/page"))
		assert.False(t, f.Push("https://a.test/page"))
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(10000, 0.001)
		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := range 100 {
					f.Push(fmt.Sprintf("https://a.test/%d/%d", i, j))
				}
			}()
			go func() {
				defer wg.Done()
				for range 100 {
					f.Pop()
					f.Len()
				}
			}()
		}
		wg.Wait()

		for i := range 10 {
			for j := range 100 {
				assert.True(t, f.Seen(fmt.Sprintf("https://a.test/%d/%d", i, j)))
			}
		}
	})
}
