package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/horizon/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("reports added article URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		assert.False(t, f.Test("https://news.example.com/2024/05/chips"))

		f.Add("https://news.example.com/2024/05/chips")

		assert.True(t, f.Test("https://news.example.com/2024/05/chips"))
		assert.False(t, f.Test("https://news.example.com/2024/05/rockets"))
	})

	t.Run("estimated count tracks distinct URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		assert.Equal(t, uint(0), f.EstimatedCount())

		for _, u := range []string{"https://a.example/1", "https://b.example/2", "https://c.example/3", "https://a.example/1"} {
			f.Add(u)
		}

		count := f.EstimatedCount()
		assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				u := fmt.Sprintf("https://example.com/story/%d", i)
				f.Add(u)
				assert.True(t, f.Test(u))
			}()
		}
		wg.Wait()
	})

	t.Run("false positive rate stays near target", func(t *testing.T) {
		t.Parallel()

		const n = 10000
		f := bloom.NewFilter(n, 0.01)
		for i := range n {
			f.Add(fmt.Sprintf("https://example.com/seen/%d", i))
		}

		falsePositives := 0
		for i := range n {
			if f.Test(fmt.Sprintf("https://example.com/unseen/%d", i)) {
				falsePositives++
			}
		}

		rate := float64(falsePositives) / n
		assert.Less(t, rate, 0.02, "false positive rate %f exceeds 2%%", rate)
	})

	t.Run("ignores fragments and campaign parameters", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Add("https://news.example.com/story?id=7&utm_source=newsletter&utm_medium=email#comments")

		assert.True(t, f.Test("https://news.example.com/story?id=7"))
		assert.True(t, f.Test("https://news.example.com/story?UTM_Campaign=spring&id=7"))
		assert.False(t, f.Test("https://news.example.com/story?id=8"))
	})
}
