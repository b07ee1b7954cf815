package aivoice

import "errors"

// ConnectOrStart starts the host program if it is not running and connects
// to it if it is not connected. Any failure is reported as a *ConnectionError.
func (c *Client) ConnectOrStart() error {
	status, err := c.Status()
	if err != nil {
		return &ConnectionError{Cause: err}
	}

	if status == HostNotRunning {
		c.log.Info("Host is not running, starting it")

		err = c.host.StartHost()
		if err != nil {
			return &ConnectionError{Cause: err}
		}

		status, err = c.Status()
		if err != nil {
			return &ConnectionError{Cause: err}
		}
	}

	if status == HostNotConnected {
		c.log.Info("Host is not connected, connecting")

		err = c.host.Connect()
		if err != nil {
			return &ConnectionError{Cause: err}
		}
	}

	return nil
}

// guard makes sure the host is up and connected, then runs fn. Failures of fn
// are reported as an *OperationError named op, except schema errors, which
// point at a caller bug and are returned as they are.
func (c *Client) guard(op string, fn func() error) error {
	err := c.ConnectOrStart()
	if err != nil {
		c.log.Error("Could not connect before %s: %v", op, err)

		return err
	}

	err = fn()
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSchema) {
		return err
	}

	c.log.Error("%s failed: %v", op, err)

	return &OperationError{Op: op, Cause: err}
}

// guardValue is guard for operations that produce a value.
func guardValue[T any](c *Client, op string, fn func() (T, error)) (T, error) {
	var result T

	err := c.guard(op, func() error {
		value, err := fn()
		if err != nil {
			return err
		}

		result = value

		return nil
	})

	return result, err
}
