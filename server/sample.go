package server

import "github.com/TFMV/edgesketch/ingest"

// sampleJSON is the demo graph offered to clients that ask for a sample
const sampleJSON = `{
	"nodes": [
		{"id": "1"}, {"id": "2"}, {"id": "3"}, {"id": "4"}, {"id": "5"}
	],
	"edges": [
		{"source": "1", "target": "2", "label": "a"},
		{"source": "2", "target": "3", "label": "b"},
		{"source": "3", "target": "4"},
		{"source": "4", "target": "5"},
		{"source": "5", "target": "1", "label": "c"},
		{"source": "1", "target": "5"},
		{"source": "2", "target": "5"}
	]
}`

// SampleSource is the edge-list text of the demo graph
var SampleSource = createSampleSource()

func createSampleSource() string {
	processor := &ingest.JSONProcessor{}
	edges, err := processor.ProcessData([]byte(sampleJSON))
	if err != nil {
		panic("server: invalid sample graph: " + err.Error())
	}
	return edges.Text
}
