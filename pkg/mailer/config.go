package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Default From address when a message has none.
	From string `env:"MAILER_FROM"`
	// Prepended to every subject, separated by a space.
	SubjectPrefix string `env:"MAILER_SUBJECT_PREFIX"`
}
