package engine

// Config holds configuration for the prompt engine.
type Config struct {
	// DefaultModel is used when the request omits the model. Empty string
	// means a model is always required in the request.
	DefaultModel string

	// TitlePrefix is prepended to the model display name to form the title
	// of newly created remote conversations. Defaults to "LLM Chat - ".
	TitlePrefix string
}

// titlePrefix returns the effective title prefix.
func (c Config) titlePrefix() string {
	if c.TitlePrefix == "" {
		return "LLM Chat - "
	}
	return c.TitlePrefix
}
