package gateway

import "testing"

func TestDeriveShardID(t *testing.T) {
	t.Run("one-shard", func(t *testing.T) {
		snowflakes := []uint64{345573676574567, 47890435843, 23940234, 2987509435}
		for _, s := range snowflakes {
			if DeriveShardID(s, 1) != 0 {
				t.Errorf("expected shard id to be 0 for %d", s)
			}
		}
	})

	t.Run("multiple-shards", func(t *testing.T) {
		n := 6
		for i := 0; i < n; i++ {
			snowflake := uint64(i) << 22
			if got := DeriveShardID(snowflake, uint(n)); got != ShardID(i) {
				t.Errorf("expected shard id %d, got %d", i, got)
			}
		}
	})
}
