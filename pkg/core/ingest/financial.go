package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"practice_sale/pkg/models"
)

// parseLenientJSON tries progressively more forgiving parsers. The financial
// exports are hand-edited by the bookkeeper and accumulate trailing commas
// and comments over the years.
// Order of attempts: standard JSON, JSON repair, Hjson.
func parseLenientJSON(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	if err := hjson.Unmarshal(data, out); err == nil {
		return nil
	}

	return fmt.Errorf("all parsing strategies failed")
}

// ReadFinancialJSON reads one pre-parsed financial export: a mapping from
// statement name to a payload. A payload carrying an explicit "data" object
// may also carry a "period" label; a bare object is accepted as the data
// itself.
func (l *Loader) ReadFinancialJSON(path string) (map[string]models.FinancialDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}

	var byName map[string]interface{}
	if err := parseLenientJSON(raw, &byName); err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", path, err)
	}

	docs := make(map[string]models.FinancialDocument, len(byName))
	for name, payload := range byName {
		doc := models.FinancialDocument{Name: name, SourceFile: path}

		obj, ok := payload.(map[string]interface{})
		if !ok {
			l.log.Warn("financial statement payload is not an object", "file", path, "statement", name)
			docs[name] = doc
			continue
		}

		if inner, ok := obj["data"].(map[string]interface{}); ok {
			doc.Data = inner
			if period, ok := obj["period"].(string); ok {
				doc.Period = period
			}
		} else {
			doc.Data = obj
		}
		docs[name] = doc
	}

	l.log.Info("financial documents loaded", "file", path, "statements", len(docs))
	return docs, nil
}
