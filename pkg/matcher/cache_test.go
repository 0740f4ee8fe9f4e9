// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCache(t *testing.T) {
	m, _ := NewRegExpMatcher("^node_")
	cached := WithCache(m)

	assert.True(t, cached.MatchString("node_cpu_seconds_total"))
	assert.True(t, cached.MatchString("node_cpu_seconds_total"))
	assert.True(t, cached.Match([]byte("node_memory_bytes")))
	assert.True(t, cached.Match([]byte("node_memory_bytes")))
	assert.False(t, cached.MatchString("go_goroutines"))
	assert.False(t, cached.MatchString("go_goroutines"))
}

func TestWithCache_specialCase(t *testing.T) {
	assert.Equal(t, TRUE(), WithCache(TRUE()))
	assert.Equal(t, FALSE(), WithCache(FALSE()))
}
func BenchmarkCachedMatcher_MatchString_cache_hit(b *testing.B) {
	benchmarks := []struct {
		name   string
		expr   string
		target string
	}{
		{"stringFullMatcher", "= node_load1", "node_load1"},
		{"stringPrefixMatcher", "~ ^node_", "node_cpu_seconds_total"},
		{"stringSuffixMatcher", "~ _total$", "node_cpu_seconds_total"},
		{"stringPartialMatcher", "~ cpu", "node_cpu_seconds_total"},
		{"globMatcher", "* node_*_total", "node_cpu_seconds_total"},
		{"regexp", "~ [a-z_]+[0-9]$", "node_load1"},
	}
	for _, bm := range benchmarks {
		m := Must(Parse(bm.expr))
		b.Run(bm.name+"_raw", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m.MatchString(bm.target)
			}
		})
		b.Run(bm.name+"_cache", func(b *testing.B) {
			cached := WithCache(m)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cached.MatchString(bm.target)
			}
		})
	}
}
