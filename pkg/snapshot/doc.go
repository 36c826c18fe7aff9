// Package snapshot persists named captures of a graph tree.
//
// A [Snapshot] holds the JSON document produced by the io package plus a
// little metadata (id, name, creation time, element counts). Stores
// implement [Store]:
//
//   - [FileStore]: one JSON file per snapshot, sharded by hashed id
//   - [RedisStore]: string keys plus an index set
//   - [MongoStore]: one document per snapshot, TTL index for expiry
//   - [BadgerStore]: embedded key-value database, in memory when no dir
//   - [NullStore]: stores nothing
//
// Every backend honours an optional TTL. [Open] picks a backend from a
// [Config] and wraps it so [observability.StoreHooks] see each save, load
// and delete:
//
//	st, err := snapshot.Open(ctx, cfg.Store, snapshot.WithHooks(hooks))
//	snap, err := snapshot.New(g, "before-import")
//	err = st.Save(ctx, snap)
//	...
//	snap, err = st.Load(ctx, id)
//	g2, err := snap.Graph()
//
// Snapshots are independent of a graph's undo history: restoring one
// creates a new root.
package snapshot
