package devenv

// LiveTestConfig holds the credentials used by tests that talk to the real
// travelpayouts endpoints. It lives in dev/.state/live_config.json5.
type LiveTestConfig struct {
	Token  string `json:"token"`
	Marker string `json:"marker"`
	Host   string `json:"host"`
}
