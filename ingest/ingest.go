// Package ingest turns textual graph descriptions into changes on a
// graph.Graph. The native format is a line-oriented edge list:
//
//	<sourceId> <targetId> [label]
//
// JSON and CSV documents are converted to that format first.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files no processor understands.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// EdgeList is edge-list text produced by a processor
type EdgeList struct {
	Text string
	// Dropped counts input entities that cannot be expressed as an edge
	// list line (isolated nodes, rows with fewer than two fields).
	Dropped int
}

// DataProcessor defines the interface that all input processors must implement
type DataProcessor interface {
	// ProcessData converts raw bytes into edge-list text
	ProcessData(data []byte) (*EdgeList, error)

	// GetName returns the name of the processor
	GetName() string
}

// ProcessorFor selects a processor from a file name's extension
func ProcessorFor(filename string) (DataProcessor, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case "", ".txt", ".edges", ".el":
		return &EdgeListProcessor{}, nil
	case ".json":
		return &JSONProcessor{}, nil
	case ".csv":
		return &CSVProcessor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// EdgeListProcessor passes native edge lists through unchanged
type EdgeListProcessor struct{}

// GetName returns the name of the processor
func (p *EdgeListProcessor) GetName() string {
	return "Edge List Processor"
}

// ProcessData normalises line endings and returns the text
func (p *EdgeListProcessor) ProcessData(data []byte) (*EdgeList, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &EdgeList{Text: text}, nil
}

// JSONProcessor handles JSON graph documents
type JSONProcessor struct{}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData converts {"nodes": [...], "edges": [...]} into an edge list.
// Nodes that no edge references cannot be represented and are counted as
// dropped.
func (p *JSONProcessor) ProcessData(data []byte) (*EdgeList, error) {
	var graphData struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
			Label  string `json:"label"`
		} `json:"edges"`
	}

	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	declared := make(map[string]bool, len(graphData.Nodes))
	for _, n := range graphData.Nodes {
		declared[token(n.ID)] = true
	}

	referenced := make(map[string]bool)
	var lines []string
	for i, e := range graphData.Edges {
		source, target := token(e.Source), token(e.Target)
		if source == "" || target == "" {
			return nil, fmt.Errorf("edge %d: source and target are required", i)
		}
		if len(declared) > 0 && (!declared[source] || !declared[target]) {
			return nil, fmt.Errorf("edge references non-existent node: %s -> %s", source, target)
		}
		referenced[source] = true
		referenced[target] = true
		lines = append(lines, line(source, target, token(e.Label)))
	}

	dropped := 0
	for id := range declared {
		if !referenced[id] {
			dropped++
		}
	}

	return &EdgeList{Text: strings.Join(lines, "\n"), Dropped: dropped}, nil
}

// CSVProcessor handles source,target[,label] rows
type CSVProcessor struct{}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData converts CSV rows into an edge list. A first row reading
// "source,target" is treated as a header.
func (p *CSVProcessor) ProcessData(data []byte) (*EdgeList, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var lines []string
	dropped := 0
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", row+1, err)
		}

		if row == 0 && isHeader(record) {
			continue
		}
		if len(record) < 2 || token(record[0]) == "" || token(record[1]) == "" {
			dropped++
			continue
		}

		label := ""
		if len(record) > 2 {
			label = token(record[2])
		}
		lines = append(lines, line(token(record[0]), token(record[1]), label))
	}

	return &EdgeList{Text: strings.Join(lines, "\n"), Dropped: dropped}, nil
}

func isHeader(record []string) bool {
	return len(record) >= 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "source") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "target")
}

// token collapses internal whitespace so a value stays a single field
func token(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

func line(source, target, label string) string {
	if label == "" {
		return source + " " + target
	}
	return source + " " + target + " " + label
}
