// Package es provides the Elasticsearch client used for candidate retrieval.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"supportmatch-go/internal/config"
	"supportmatch-go/internal/model"
	"supportmatch-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES initializes the Elasticsearch client and ensures the record index
// exists.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists checks for the record index and creates it when
// missing.
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("failed to check index existence: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("unexpected status %d while checking index '%s'", res.StatusCode, indexName)
		return fmt.Errorf("unexpected status while checking index: %d", res.StatusCode)
	}

	// Tags are keyword so that exact terms and prefix queries both work on
	// the raw hierarchical labels; the text fields are only carried along
	// for the in-process similarity scoring, so the standard analyzer is
	// enough.
	mapping := `{
		"mappings": {
			"properties": {
				"conversation_id": { "type": "keyword" },
				"customer_name":   { "type": "keyword" },
				"tags":            { "type": "keyword" },
				"summary":         { "type": "text" },
				"text_snippet":    { "type": "text" },
				"message_count":   { "type": "integer" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)

	if err != nil {
		log.Errorf("failed to create index '%s': %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("elasticsearch returned an error creating index '%s': %s", indexName, res.String())
		return errors.New("elasticsearch returned an error creating index")
	}

	log.Infof("index '%s' created successfully", indexName)
	return nil
}

// IndexRecord indexes a single conversation record, replacing any previous
// document for the same conversation.
func IndexRecord(ctx context.Context, indexName string, doc model.EsRecord) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.ConversationID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("failed to index record into Elasticsearch: %s", res.String())
		return errors.New("failed to index record")
	}

	return nil
}

// SearchCandidates retrieves records sharing at least one exact tag with the
// query, or carrying a tag under one of the category prefixes. The precise
// exact-match/fallback semantics are applied in-process by the matching
// engine; this query only bounds the pool it works on.
func SearchCandidates(ctx context.Context, indexName string, exactTags, categoryPrefixes []string, size int) ([]model.EsRecord, error) {
	should := make([]map[string]interface{}, 0, 1+len(categoryPrefixes))
	if len(exactTags) > 0 {
		should = append(should, map[string]interface{}{
			"terms": map[string]interface{}{"tags": exactTags},
		})
	}
	for _, prefix := range categoryPrefixes {
		should = append(should, map[string]interface{}{
			"prefix": map[string]interface{}{"tags": prefix},
		})
	}
	if len(should) == 0 {
		return nil, nil
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"message_count": map[string]interface{}{"order": "desc"}},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.EsRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	records := make([]model.EsRecord, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}
