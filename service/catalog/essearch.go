package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"

	"storefront.GO/model/entity"
)

// ESSearch is an optional keyword-search strategy against the upstream
// product index. Unconfigured (no ELASTICSEARCH_HOST) means disabled: the
// orchestrator simply skips it, and the widget behaves as if it never
// existed.
type ESSearch struct {
	client *elasticsearch.Client
	index  string
}

func NewESSearch() *ESSearch {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return &ESSearch{}
	}
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "storefront_products"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &ESSearch{index: index}
	}
	return &ESSearch{client: client, index: index}
}

func (s *ESSearch) Enabled() bool {
	return s != nil && s.client != nil
}

// Search queries the product index with a multi-field match on the fields
// shoppers actually type: name, sku, manufacturer, description.
func (s *ESSearch) Search(ctx context.Context, query string, size int) ([]entity.Product, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("elasticsearch not configured")
	}
	if size <= 0 {
		size = 20
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"product_name^3", "sku^2", "manufacturer", "description"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		// Round-trip through JSON: the price fields are decimals and only
		// have JSON unmarshallers.
		raw, err := json.Marshal(hit.Source)
		if err != nil {
			continue
		}
		var p entity.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
