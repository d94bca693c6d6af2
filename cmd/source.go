package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/TFMV/edgesketch/engine"
	"github.com/TFMV/edgesketch/ingest"
)

// readSource loads a graph file as edge-list text; "-" reads stdin as an edge list
func readSource(path string, stdin io.Reader) (*ingest.EdgeList, error) {
	var (
		data []byte
		err  error
	)
	name := path
	if path == "-" {
		name = ""
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	processor, err := ingest.ProcessorFor(name)
	if err != nil {
		return nil, err
	}
	edges, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", path, err)
	}
	if edges.Dropped > 0 {
		logger.Warn("dropped records", "file", path, "processor", processor.GetName(), "count", edges.Dropped)
	}
	return edges, nil
}

// newLoop creates an engine loop from the loaded configuration
func newLoop() *engine.Loop {
	opts := cfg.EngineOptions()
	opts.Logger = logger
	return engine.New(opts)
}
