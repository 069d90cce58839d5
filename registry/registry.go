package registry

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceRegistry defines the interface for service registration and discovery.
type ServiceRegistry interface {
	// Register announces one instance of a service together with its health check.
	Register(id, name, address string, port int, tags []string, check *consulapi.AgentServiceCheck) error

	// Deregister removes a service instance using its unique ID.
	Deregister(id string) error

	// Discover returns "host:port" for every healthy instance of name, optionally filtered by tag.
	Discover(name string, tag string) ([]string, error)
}

// ServiceID builds the instance id used for registration, unique per host and port.
func ServiceID(name, host string, port int) string {
	return fmt.Sprintf("%s-%s-%d", name, host, port)
}
