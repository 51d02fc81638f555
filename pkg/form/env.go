package form

// Env supplies the request metadata attached to validate and submit bodies:
// the calling environment's page host and full URL. Outside a browser-like
// environment both are empty strings.
type Env interface {
	Origin() string
	FullURL() string
}

type noopEnv struct{}

func (noopEnv) Origin() string  { return "" }
func (noopEnv) FullURL() string { return "" }

type staticEnv struct {
	origin  string
	fullURL string
}

func (e staticEnv) Origin() string  { return e.origin }
func (e staticEnv) FullURL() string { return e.fullURL }

// StaticEnv returns an Env reporting fixed origin and URL values.
func StaticEnv(origin, fullURL string) Env {
	return staticEnv{origin: origin, fullURL: fullURL}
}
