package es

import "github.com/elastic/go-elasticsearch/v8"

const resultsIndexSuffix = "-results"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// ResultsIndex is the index holding one document per benchmark result.
func (c ClientConfig) ResultsIndex() string {
	return c.IndexName + resultsIndexSuffix
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}
