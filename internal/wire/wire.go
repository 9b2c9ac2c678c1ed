// Package wire converts problems to and from the request bodies accepted by
// POST /knapsack.
//
// Two encodings are understood. JSON carries {"problem": {...}}. Form bodies
// carry the same nesting with bracketed keys, repeating a key once per item:
//
//	problem[capacity]=437&problem[weights]=12&problem[weights]=88&problem[values]=40&problem[values]=5
//
// The Rails-style list suffix (problem[weights][]) is accepted on decode.
package wire

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/bft-labs/knapsack/internal/domain"
)

// Content types for the two encodings.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Form keys for the nested problem structure.
const (
	KeyCapacity = "problem[capacity]"
	KeyWeights  = "problem[weights]"
	KeyValues   = "problem[values]"
)

// Envelope is the JSON request body.
type Envelope struct {
	Problem *domain.Problem `json:"problem"`
}

// EncodeForm renders p as form values.
func EncodeForm(p domain.Problem) url.Values {
	v := url.Values{}
	v.Set(KeyCapacity, strconv.Itoa(p.Capacity))
	for _, w := range p.Weights {
		v.Add(KeyWeights, strconv.Itoa(w))
	}
	for _, val := range p.Values {
		v.Add(KeyValues, strconv.Itoa(val))
	}
	return v
}

// DecodeForm reads a problem from form values.
// The result is not validated beyond integer parsing.
func DecodeForm(v url.Values) (domain.Problem, error) {
	var p domain.Problem

	raw := v.Get(KeyCapacity)
	if raw == "" {
		return p, fmt.Errorf("%w: missing %s", domain.ErrInvalidProblem, KeyCapacity)
	}
	c, err := strconv.Atoi(raw)
	if err != nil {
		return p, fmt.Errorf("%w: %s: %v", domain.ErrInvalidProblem, KeyCapacity, err)
	}
	p.Capacity = c

	if p.Weights, err = ints(v, KeyWeights); err != nil {
		return p, err
	}
	if p.Values, err = ints(v, KeyValues); err != nil {
		return p, err
	}
	return p, nil
}

func ints(v url.Values, key string) ([]int, error) {
	raw := v[key]
	if len(raw) == 0 {
		raw = v[key+"[]"]
	}
	out := make([]int, 0, len(raw))
	for i, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", domain.ErrInvalidProblem, key, i, err)
		}
		out = append(out, n)
	}
	return out, nil
}
