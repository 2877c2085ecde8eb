package helpers

import (
	"github.com/elastic/go-elasticsearch/v8"
)

// NewESClient initializes an Elasticsearch client for the given addresses.
// Credentials may be empty for unsecured local clusters.
func NewESClient(addrs []string, user, pass string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  user,
		Password:  pass,
	}
	return elasticsearch.NewClient(cfg)
}
