package aviasales

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"tpsearch/lib/platforms/core"
)

var (
	ErrNoTerms      = errors.New("proposal has no terms")
	ErrGateNotFound = errors.New("gate not found in proposal terms")
)

// Term is the offer of a single gate (agency) within a proposal.
type Term struct {
	GateId string
	// the id the click endpoint resolves into a deeplink
	UrlId string
}

// Terms lists the terms of a proposal in the order they appear in the
// document, which is the order the API ranks the gates in.
func Terms(proposal []byte) ([]Term, error) {
	var doc struct {
		Terms json.RawMessage `json:"terms"`
	}
	err := json.Unmarshal(proposal, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse proposal: %w", err)
	}
	if len(doc.Terms) == 0 || string(doc.Terms) == "null" {
		return nil, ErrNoTerms
	}

	dec := json.NewDecoder(bytes.NewReader(doc.Terms))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse terms: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse terms: expected an object, got %v", tok)
	}

	var terms []Term
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse terms: %w", err)
		}
		gateId, _ := key.(string)

		var term struct {
			Url core.FlexString `json:"url"`
		}
		err = dec.Decode(&term)
		if err != nil {
			return nil, fmt.Errorf("parse term of gate %s: %w", gateId, err)
		}
		if term.Url == "" {
			return nil, fmt.Errorf("term of gate %s has no url", gateId)
		}
		terms = append(terms, Term{GateId: gateId, UrlId: string(term.Url)})
	}

	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	return terms, nil
}

// SelectTerm picks the term of the given gate, or the first term if gateId
// is empty.
func SelectTerm(proposal []byte, gateId string) (Term, error) {
	terms, err := Terms(proposal)
	if err != nil {
		return Term{}, err
	}
	if gateId == "" {
		return terms[0], nil
	}
	for _, t := range terms {
		if t.GateId == gateId {
			return t, nil
		}
	}
	return Term{}, fmt.Errorf("%w: %s", ErrGateNotFound, gateId)
}
