package utils

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ReadYAMLFile reads a YAML document into a generic map with string keys all the way down.
func ReadYAMLFile(fPath string) (map[string]interface{}, error) {
	if fPath == "" {
		return nil, errors.New("file path is missing")
	}
	fileContent, err := os.ReadFile(fPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ParseYAML(fileContent)
}

func ParseYAML(content []byte) (map[string]interface{}, error) {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse yaml")
	}
	doc, _ := normalizeYAML(raw).(map[string]interface{})
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

// normalizeYAML turns the map[interface{}]interface{} values yaml.v2 produces
// into map[string]interface{}.
func normalizeYAML(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, value := range v {
			m[fmt.Sprint(key)] = normalizeYAML(value)
		}
		return m
	case []interface{}:
		for i := range v {
			v[i] = normalizeYAML(v[i])
		}
		return v
	default:
		return v
	}
}
