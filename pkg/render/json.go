package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/player"
)

// JSON renders the page view as a JSON document for script clients.
type JSON struct {
	Indent bool
}

var _ Renderer = JSON{}

// Payload is the document written by the JSON renderer.
type Payload struct {
	Search   string                `json:"search"`
	State    formquery.State       `json:"state"`
	Rejected []formquery.Rejection `json:"rejected"`
	Controls []ControlView         `json:"controls"`
	Page     listing.Page          `json:"page"`
	Items    []listing.Item        `json:"items"`
	Streams  map[string]string     `json:"streams,omitempty"`
	Player   *player.Player        `json:"player,omitempty"`
}

func (JSON) Name() string {
	return "json"
}

func (JSON) ContentType() string {
	return "application/json"
}

func (j JSON) Render(_ context.Context, view View) ([]byte, error) {
	payload := Payload{
		Search:   view.Search,
		State:    view.State(),
		Rejected: view.Rejected,
		Controls: view.Controls(),
		Page:     view.Page,
		Items:    view.Items,
		Streams:  view.Streams,
		Player:   view.Player,
	}
	if payload.Rejected == nil {
		payload.Rejected = []formquery.Rejection{}
	}
	if payload.Items == nil {
		payload.Items = []listing.Item{}
	}

	var (
		out []byte
		err error
	)
	if j.Indent {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return out, nil
}
