// Command netsim-metricsgen regenerates pkg/exporter/generated_edge_metrics.go
// from the metric struct tags on pkg/exporter.EdgeStats. Run it from the
// module root after adding, renaming, or re-describing an edge metric field:
//
//	go run ./cmd/netsim-metricsgen
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log"
	"os"
	"reflect"
	"strings"
	"text/template"
)

const (
	sourcePath = "pkg/exporter/exporter.go"
	outputPath = "pkg/exporter/generated_edge_metrics.go"
	structName = "EdgeStats"
)

// Metric is one field of EdgeStats destined to become a Prometheus gauge or
// counter. It is used by template.tmpl to render generated_edge_metrics.go.
type Metric struct {
	Name      string
	FieldName string
	Help      string
	Type      string
}

func main() {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, sourcePath, nil, parser.ParseComments)
	if err != nil {
		log.Fatal(err)
	}

	var metrics []Metric
	ast.Inspect(node, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != structName {
			return true
		}
		s, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}

		for _, f := range s.Fields.List {
			if f.Tag == nil || len(f.Names) == 0 {
				continue
			}
			tag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
			metricTag, ok := tag.Lookup("metric")
			if !ok {
				continue
			}

			var metric Metric
			metric.FieldName = f.Names[0].Name
			tagString := metricTag
			for tagString != "" {
				i := strings.Index(tagString, "=")
				if i == -1 {
					log.Printf("malformed tag (missing =): %s [%s]", tagString, metric.FieldName)
					break
				}
				key := tagString[:i]
				tagString = tagString[i+1:]

				var value string
				if strings.HasPrefix(tagString, "'") {
					tagString = tagString[1:]
					j := strings.Index(tagString, "'")
					if j == -1 {
						log.Printf("malformed tag (missing '): %s [%s]", tagString, metric.FieldName)
						break
					}
					value = tagString[:j]
					tagString = tagString[j+1:]
					if strings.HasPrefix(tagString, ",") {
						tagString = tagString[1:]
					}
				} else {
					j := strings.Index(tagString, ",")
					if j == -1 {
						value = tagString
						tagString = ""
					} else {
						value = tagString[:j]
						tagString = tagString[j+1:]
					}
				}

				switch key {
				case "name":
					metric.Name = value
				case "prom_type":
					switch value {
					case "gauge":
						metric.Type = "GaugeValue"
					case "counter":
						metric.Type = "CounterValue"
					}
				case "prom_help":
					metric.Help = value
				}
			}
			metrics = append(metrics, metric)
		}
		return false
	})

	t, err := template.ParseFiles("cmd/netsim-metricsgen/template.tmpl")
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Metrics []Metric }{Metrics: metrics}); err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Generated %s\n", outputPath)
}
