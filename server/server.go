package server

// Server exposes the gateway's handlers on some transport.
type Server interface {
	Options() Options
	Handle(handler any) error
	Start() error
	Stop() error
	String() string
}
