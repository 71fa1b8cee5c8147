// Package config loads the application configuration.
//
// Values are resolved in three layers: struct defaults (envDefault tags),
// then the YAML file, then environment variables. The YAML document must be
// a mapping; anything else fails with [ErrConfiguration].
//
//	default_action: index
//	base_url: /
//	session_type: db
//	session_timeout: 3600
//	throw_exceptions: false
//	db_type: sqlite
//	database_url: var/colony.db
//	routing:
//	  - pattern: '^/profile/(\d+)$'
//	    action: user
//	    method: view
//	    extra: 1
//	app:
//	  site_name: Example
//
// Pool tuning, mailer and Resend settings are read from the environment
// only; see db.Config, mailer.Config and resend.Config.
package config
