package inventory

import (
	"encoding/json"
	"fmt"

	"estoque/internal/adapter"
	"estoque/internal/domain"
)

// The adapter boundary speaks records (id + field map), not products. The
// conversion goes through JSON so both sides agree on the field names the
// original collection uses.

func productToRecord(p *domain.Product) (adapter.Record, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return adapter.Record{}, fmt.Errorf("encoding product %q: %w", p.ID, err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return adapter.Record{}, fmt.Errorf("decoding product %q fields: %w", p.ID, err)
	}
	delete(fields, "id")

	return adapter.Record{ID: p.ID, Fields: fields}, nil
}

func productFromRecord(rec adapter.Record) (*domain.Product, error) {
	raw, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("encoding record %q: %w", rec.ID, err)
	}

	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding record %q: %w", rec.ID, err)
	}
	p.ID = rec.ID
	if p.Variations == nil {
		p.Variations = []domain.Variation{}
	}
	return &p, nil
}
