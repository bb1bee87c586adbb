package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// PublicURL is the externally reachable base URL, embedded in session
	// handoff QR codes so scanners know where to connect.
	PublicURL string `mapstructure:"public_url" default:"http://localhost:8080"`
}
