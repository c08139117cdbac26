// Package nav abstracts the host application's screen routing. The session
// core only ever needs to know where the user is and to send them to the
// login screen.
package nav

// Route names shared between the watchdog and the response policy.
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
)

// Navigator is implemented by the host UI layer.
type Navigator interface {
	Current() string
	GoTo(route string)
}

// Nop satisfies Navigator for hosts without screen routing.
type Nop struct{}

func (Nop) Current() string { return "/" }
func (Nop) GoTo(string)     {}
