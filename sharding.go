package gateway

// DeriveShardID computes which shard a guild belongs to from its
// snowflake ID, per Discord's sharding formula: (snowflake >> 22) %
// totalNumberOfShards. Useful for routing REST calls or background work
// to the shard that owns a given guild's gateway connection.
func DeriveShardID(snowflake uint64, totalNumberOfShards uint) ShardID {
	createdUnix := snowflake >> 22
	return ShardID(createdUnix % uint64(totalNumberOfShards))
}
