/*
Package cache stores positive token verdicts between authority checks.

An Entry records when a token was verified and for how long the verdict may
be trusted. Stores also expire entries on their own after the TTL, but that
is only a backstop: readers must call Entry.Fresh before trusting a hit.

Two Store implementations are provided:

  - MemoryStore, a bounded in-process LRU for single-process deployments
    and tests.
  - RedisStore, a Redis backed store shared by every process in front of the
    same storage cluster.

Both are safe for concurrent use.
*/
package cache
