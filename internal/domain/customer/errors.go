package customer

import "fmt"

// ErrCustomerNotFound indicates the directory has no such customer
type ErrCustomerNotFound struct {
	CustomerID string
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID
}

// Is matches any ErrCustomerNotFound when the target carries no ID.
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	return t.CustomerID == "" || t.CustomerID == e.CustomerID
}

// ErrUpstreamUnavailable wraps a failed call to one of the directory services.
type ErrUpstreamUnavailable struct {
	Service string
	Err     error
}

func (e ErrUpstreamUnavailable) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e ErrUpstreamUnavailable) Unwrap() error {
	return e.Err
}

// Is matches any ErrUpstreamUnavailable when the target names no service.
func (e ErrUpstreamUnavailable) Is(target error) bool {
	t, ok := target.(ErrUpstreamUnavailable)
	if !ok {
		return false
	}
	return t.Service == "" || t.Service == e.Service
}
