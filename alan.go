// Package alan is the root of the Alan workflow assistant service
package alan

const (
	// Name is the service name reported in logs and health responses
	Name = "alan"

	// Version is the service version reported in logs and health responses
	Version = "0.4.0"
)
