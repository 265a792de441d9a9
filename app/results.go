package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ResultSet is the encoded list of byte slices a query returns. A query
// answers with the keys in one set and the values in another, both in the
// same order.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	e.RepeatedBytes(1, r.Results)
	return e.Bytes(), nil
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	r.Results = nil
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		if field == 1 {
			r.Results = append(r.Results, d.Bytes())
		}
		return nil
	})
}

// ResultsFromKeys collects the keys of models.
func ResultsFromKeys(models []bazaar.Model) *ResultSet {
	return column(models, func(m bazaar.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of models.
func ResultsFromValues(models []bazaar.Model) *ResultSet {
	return column(models, func(m bazaar.Model) []byte { return m.Value })
}

func column(models []bazaar.Model, pick func(bazaar.Model) []byte) *ResultSet {
	out := make([][]byte, 0, len(models))
	for _, m := range models {
		out = append(out, pick(m))
	}
	return &ResultSet{Results: out}
}

// JoinResults pairs keys and values back into models.
func JoinResults(keys, values *ResultSet) ([]bazaar.Model, error) {
	if n, m := len(keys.Results), len(values.Results); n != m {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", n, m)
	}
	models := make([]bazaar.Model, 0, len(keys.Results))
	for i, k := range keys.Results {
		models = append(models, bazaar.Pair(k, values.Results[i]))
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of the encoded result set
// into o. An empty set leaves o unchanged.
func UnmarshalOneResult(raw []byte, o bazaar.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
