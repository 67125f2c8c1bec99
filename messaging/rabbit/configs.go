package rabbit

import (
	"fmt"
	"net/url"
)

const (
	DefaultHostAddress      = "amqp://localhost/"
	DefaultUsername         = "guest"
	DefaultPassword         = "guest"
	DefaultPrefetchCount    = 8
	DefaultConcurrencyLimit = 1
)

// Config holds the broker address, credentials and consumer limits.
// Empty or non-positive values fall back to the defaults above.
type Config struct {
	// HostAddress is the broker URL, the path selects the virtual host.
	HostAddress string
	Username    string
	Password    string

	// PrefetchCount limits unacknowledged deliveries per consumer channel.
	PrefetchCount int

	// ConcurrencyLimit is the number of deliveries handled at the same time.
	ConcurrencyLimit int
}

func (c Config) withDefaults() Config {
	if c.HostAddress == "" {
		c.HostAddress = DefaultHostAddress
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Password == "" {
		c.Password = DefaultPassword
	}
	if c.PrefetchCount <= 0 {
		c.PrefetchCount = DefaultPrefetchCount
	}
	if c.ConcurrencyLimit <= 0 {
		c.ConcurrencyLimit = DefaultConcurrencyLimit
	}
	return c
}

func (c Config) hostURL() (*url.URL, error) {
	u, err := url.Parse(c.withDefaults().HostAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid host address: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid host address %q: scheme and host are required", u.String())
	}
	return u, nil
}

// URI returns the dial address with the credentials applied.
func (c Config) URI() (string, error) {
	u, err := c.hostURL()
	if err != nil {
		return "", err
	}
	cfg := c.withDefaults()
	u.User = url.UserPassword(cfg.Username, cfg.Password)
	return u.String(), nil
}

// DestinationAddress resolves queue against the host address, so
// "amqp://localhost/" and "orders" give "amqp://localhost/orders".
func (c Config) DestinationAddress(queue string) (*url.URL, error) {
	u, err := c.hostURL()
	if err != nil {
		return nil, err
	}
	return u.ResolveReference(&url.URL{Path: queue}), nil
}
