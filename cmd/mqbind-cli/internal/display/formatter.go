// Package display renders catalogs and topologies for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/topology"
)

// Output formats accepted by the list and plan commands. Only list
// supports yaml.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// EventDisplay represents an event descriptor for display purposes
type EventDisplay struct {
	Name          string   `json:"name"`
	Direction     string   `json:"direction"`
	Exchange      string   `json:"exchange"`
	RoutingKey    string   `json:"routing_key"`
	Description   string   `json:"description,omitempty"`
	PayloadType   string   `json:"payload_type,omitempty"`
	PayloadFields []string `json:"payload_fields,omitempty"`
}

// CatalogEvents flattens a catalog into display rows, produced events first.
func CatalogEvents(c *events.Catalog) []EventDisplay {
	var rows []EventDisplay
	add := func(list []*events.Descriptor, direction string) {
		for _, d := range list {
			if d == nil {
				continue
			}
			rows = append(rows, EventDisplay{
				Name:          d.DisplayName(),
				Direction:     direction,
				Exchange:      d.Exchange(),
				RoutingKey:    d.RoutingKey(),
				Description:   d.Description(),
				PayloadType:   d.PayloadType(),
				PayloadFields: d.PayloadFields(),
			})
		}
	}
	add(c.Produced(), "produced")
	add(c.Consumed(), "consumed")
	return rows
}

// DisplayCatalogTable writes the catalog as a table.
func DisplayCatalogTable(out io.Writer, c *events.Catalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tDIRECTION\tEXCHANGE\tROUTING KEY\tDESCRIPTION")
	fmt.Fprintln(w, "----\t---------\t--------\t-----------\t-----------")

	rows := CatalogEvents(c)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No events found")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.Name,
			row.Direction,
			orDash(row.Exchange),
			orDash(row.RoutingKey),
			truncateString(row.Description, 40))
	}
}

// DisplayCatalogJSON writes the catalog in JSON format
func DisplayCatalogJSON(out io.Writer, c *events.Catalog, service string) error {
	rows := CatalogEvents(c)
	output := struct {
		Service string         `json:"service,omitempty"`
		Events  []EventDisplay `json:"events"`
		Count   int            `json:"count"`
	}{
		Service: service,
		Events:  rows,
		Count:   len(rows),
	}

	return encodeJSON(out, output)
}

// DisplayCatalogYAML writes the catalog in the file format read by
// events.LoadCatalog, so the output can be saved and loaded back.
func DisplayCatalogYAML(out io.Writer, c *events.Catalog, service string) error {
	data, err := events.MarshalCatalog(c, service)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// DisplayTopologyTable writes exchanges, queues and bindings as three tables.
func DisplayTopologyTable(out io.Writer, topo *topology.Topology) {
	fmt.Fprintf(out, "Topology for service '%s':\n\n", topo.Service)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXCHANGE\tKIND\tDURABLE\tAUTO-DELETE")
	for _, ex := range topo.Exchanges {
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", ex.Name, ex.Kind, ex.Durable, ex.AutoDelete)
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUEUE\tDURABLE\tEXCLUSIVE\tAUTO-DELETE")
	if len(topo.Queues) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, q := range topo.Queues {
		fmt.Fprintf(w, "%s\t%t\t%t\t%t\n", q.Name, q.Durable, q.Exclusive, q.AutoDelete)
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUEUE\tEXCHANGE\tROUTING KEY\tEVENT")
	if len(topo.Bindings) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, b := range topo.Bindings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Queue, b.Exchange, b.RoutingKey, b.Event)
	}
	w.Flush()
}

// DisplayTopologyJSON writes the topology in JSON format
func DisplayTopologyJSON(out io.Writer, topo *topology.Topology) error {
	return encodeJSON(out, topo)
}

// DisplayValidationResult writes the outcome of a catalog validation.
func DisplayValidationResult(out io.Writer, c *events.Catalog, origin string, err error) {
	if err != nil {
		fmt.Fprintf(out, "❌ Catalog validation failed: %v\n", err)
		return
	}

	fmt.Fprintf(out, "✅ Catalog '%s' is valid\n", origin)
	fmt.Fprintf(out, "   Produced: %d\n", len(c.Produced()))
	fmt.Fprintf(out, "   Consumed: %d\n", len(c.Consumed()))
	fmt.Fprintf(out, "   Distinct: %d of %d entries\n", len(c.All()), c.Len())
}

func encodeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
