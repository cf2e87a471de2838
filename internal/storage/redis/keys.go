package redis

import "fmt"

// Key prefix for all auction data
const keyPrefix = "auction"

// catalogKey returns the Redis key for the stored catalog
func catalogKey() string {
	return fmt.Sprintf("%s:catalog", keyPrefix)
}

// salesKey returns the Redis key for the sale ledger LIST
func salesKey() string {
	return fmt.Sprintf("%s:sales", keyPrefix)
}
