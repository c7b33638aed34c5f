// Package event distributes stream and client notifications to host
// listeners. The Bus implements core.Publisher and fans notifications out to
// registered Listeners in registration order; message and command delivery
// stops at the first listener that consumes the event.
package event
