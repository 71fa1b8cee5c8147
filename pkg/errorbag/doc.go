// Package errorbag collects user-facing error messages per form field and
// carries them across exactly one redirect through the session.
//
// A handler validates input, records messages with Add and calls Trap with
// the location to send the user back to. If anything was recorded the
// messages are stashed in the session and the redirect signal is returned;
// the next request restores them with New and clears the session key, so a
// third request sees nothing.
//
//	bag := errorbag.New(sess, c)
//	if name == "" {
//		bag.Add("name", "Name is required")
//	}
//	if err := bag.Trap("/user/edit"); err != nil {
//		return err
//	}
package errorbag
