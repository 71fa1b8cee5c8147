// Package session provides server-side sessions identified by a cookie.
//
// A [Session] carries an ID, a free-form Data map and the time of its last
// save. Persistence is delegated to a [Store]:
//
//   - [DBStore] keeps rows in the "session" table through a db.Adapter
//   - [RedisStore] keeps keys with a TTL
//   - [MemoryStore] keeps entries in process memory
//
// The [Manager] drives the lifecycle. Load returns the session named by the
// request cookie or creates a new one, refreshing the cookie either way. Save
// writes the data back and purges sessions older than the timeout. A
// [Janitor] can run the purge on a cron schedule as well.
//
//	m := session.NewManager(session.NewDBStore(adapter, ""),
//		session.WithTimeout(time.Hour),
//		session.WithPath("/"),
//	)
//
//	sess, err := m.Load(ctx, w, m.Token(r))
//	if err != nil {
//		return err
//	}
//	sess.SetValue("user", "alice")
//	if err := m.Save(ctx, sess); err != nil {
//		return err
//	}
//
// Session ids are SHA-1 digests of the creation time and a pseudo-random
// number. They are not suitable as authentication secrets.
//
// Concurrent requests carrying the same session each load a private copy;
// the last one to save wins.
package session
