package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type exportDoc struct {
	Metric     string   `yaml:"metric"`
	Timestamps []Bucket `yaml:"timestamps"`
}

// ExportYAML writes each series as its own YAML document.
func ExportYAML(w io.Writer, series ...Series) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, s := range series {
		doc := exportDoc{Metric: s.Metric.String(), Timestamps: s.Buckets}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding %s series: %w", s.Metric, err)
		}
	}
	return enc.Close()
}
